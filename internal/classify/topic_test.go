package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		topic string
		want  bool
	}{
		{"economia keyword hit", "Nueva ley de inflación aprobada", "economia", true},
		{"economia keyword miss", "Final del campeonato mundial", "economia", false},
		{"deportes keyword hit", "Final del campeonato mundial", "deportes", true},
		{"case insensitive", "EL GOBIERNO ANUNCIA ELECCIONES", "politica", true},
		{"accented keyword", "Sube la inflación en la región", "economia", true},
		{"multiword keyword", "Avances en inteligencia artificial", "tecnologia", true},
		{"empty topic matches all", "cualquier texto", "", true},
		{"all wildcard matches", "cualquier texto", TopicAll, true},
		{"unknown topic matches nothing", "economía política deporte", "sucesos", false},
		{"empty text", "", "economia", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.text, tt.topic))
		})
	}
}

func TestTopics(t *testing.T) {
	want := []string{
		"ciencia", "cultura", "deportes", "economia", "internacional",
		"medio_ambiente", "nacional", "politica", "salud", "tecnologia",
	}
	if diff := cmp.Diff(want, Topics()); diff != "" {
		t.Errorf("Topics() mismatch (-want +got):\n%s", diff)
	}
}
