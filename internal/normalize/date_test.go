package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_CommonFeedFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "RFC 1123",
			raw:  "Fri, 10 May 2024 08:00:00 GMT",
			want: time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "ISO 8601 with zone",
			raw:  "2024-05-10T08:00:00Z",
			want: time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "date only",
			raw:  "2024-05-10",
			want: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, "")
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got.UTC()), "got %v", got)
		})
	}
}

func TestParseDate_SpanishLongForm(t *testing.T) {
	got, ok := ParseDate("12 de marzo de 2024", "es-ES")
	require.True(t, ok)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 12, got.Day())
}

func TestParseDate_SpanishAbbreviatedMonth(t *testing.T) {
	got, ok := ParseDate("10 dic 2023", "es-DO")
	require.True(t, ok)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.December, got.Month())
	assert.Equal(t, 10, got.Day())
}

func TestParseDate_SpanishRequiresLocaleHint(t *testing.T) {
	_, ok := ParseDate("12 de marzo de 2024", "")
	assert.False(t, ok, "name translation only applies under an es locale")
}

func TestParseDate_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "   ", "hace poco", "ayer por la tarde"} {
		_, ok := ParseDate(raw, "es-ES")
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestParseDate_CanonicalRoundTrip(t *testing.T) {
	first, ok := ParseDate("Fri, 10 May 2024 08:00:00 GMT", "es-ES")
	require.True(t, ok)

	second, ok := ParseDate(first.Format(time.RFC3339), "es-ES")
	require.True(t, ok)
	assert.True(t, first.Equal(second))
}

func TestRewriteSpanish(t *testing.T) {
	assert.Equal(t, "12 march 2024", rewriteSpanish("12 de marzo de 2024"))
	assert.Equal(t, "monday, 1 january 2024", rewriteSpanish("Lunes, 1 de Enero del 2024"))
}
