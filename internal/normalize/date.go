// Package normalize converts loosely-formatted date strings into canonical
// timestamps. Feed dates arrive as RFC-2822, ISO-8601 variants, or free-form
// locale-specific text ("12 de marzo de 2024"); page metadata is worse. The
// parser never errors: an unconfident parse reports ok=false and the caller
// treats the date as unknown.
package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// spanishTokens maps Spanish month and weekday names (and their common
// abbreviations) to English equivalents understood by dateparse.
var spanishTokens = map[string]string{
	"enero":      "january",
	"febrero":    "february",
	"marzo":      "march",
	"abril":      "april",
	"mayo":       "may",
	"junio":      "june",
	"julio":      "july",
	"agosto":     "august",
	"septiembre": "september",
	"setiembre":  "september",
	"octubre":    "october",
	"noviembre":  "november",
	"diciembre":  "december",

	"ene":  "jan",
	"abr":  "apr",
	"ago":  "aug",
	"sept": "sep",
	"set":  "sep",
	"dic":  "dec",

	"lunes":     "monday",
	"martes":    "tuesday",
	"miércoles": "wednesday",
	"miercoles": "wednesday",
	"jueves":    "thursday",
	"viernes":   "friday",
	"sábado":    "saturday",
	"sabado":    "saturday",
	"domingo":   "sunday",

	"lun": "mon",
	"mié": "wed",
	"mie": "wed",
	"jue": "thu",
	"vie": "fri",
	"sáb": "sat",
	"dom": "sun",
}

// ParseDate parses raw into a timestamp. The locale hint only affects
// month/day-name resolution; numeric ISO dates parse identically for every
// locale. Parsing an already-canonical timestamp string yields an equal
// timestamp. Returns ok=false when no confident parse is possible.
func ParseDate(raw, locale string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t, true
	}

	if strings.HasPrefix(strings.ToLower(locale), "es") {
		if t, err := dateparse.ParseAny(rewriteSpanish(raw)); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// rewriteSpanish lowercases the input, translates Spanish month/day names to
// English, and drops the connective "de"/"del" so "12 de marzo de 2024"
// becomes "12 march 2024".
func rewriteSpanish(raw string) string {
	fields := strings.Fields(strings.ToLower(raw))
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		word := strings.Trim(field, ",.")
		if word == "de" || word == "del" {
			continue
		}
		if repl, ok := spanishTokens[word]; ok {
			out = append(out, strings.Replace(field, word, repl, 1))
			continue
		}
		out = append(out, field)
	}
	return strings.Join(out, " ")
}
