// Package classify labels article text with coarse topic tags using static
// keyword sets. Matching is case-insensitive substring containment: a single
// keyword hit is sufficient, there is no stemming or scoring. False positives
// are acceptable; a missing keyword simply means no match.
package classify

import (
	"sort"
	"strings"
)

// topicKeywords maps each topic key to its lowercase keyword set.
var topicKeywords = map[string][]string{
	"economia": {
		"economía", "económico", "finanzas", "dinero", "inversión", "mercado",
		"bolsa", "inflación", "pib", "desempleo", "salario", "presupuesto",
	},
	"politica": {
		"política", "político", "gobierno", "presidente", "ministro", "congreso",
		"senado", "elecciones", "votación", "partido", "democracia",
	},
	"salud": {
		"salud", "médico", "hospital", "enfermedad", "vacuna", "covid",
		"pandemia", "tratamiento", "medicina", "cirugía", "doctor",
	},
	"tecnologia": {
		"tecnología", "tecnológico", "digital", "internet", "software",
		"hardware", "aplicación", "app", "smartphone", "computadora",
		"inteligencia artificial",
	},
	"deportes": {
		"deporte", "deportivo", "fútbol", "futbol", "baloncesto", "tenis",
		"olímpico", "mundial", "campeonato", "liga", "equipo",
	},
	"cultura": {
		"cultura", "cultural", "arte", "música", "cine", "película", "libro",
		"literatura", "teatro", "exposición", "festival",
	},
	"internacional": {
		"internacional", "mundial", "global", "país", "nación", "extranjero",
		"diplomacia", "onu", "naciones unidas",
	},
	"nacional": {
		"nacional", "local", "región", "ciudad", "municipal", "provincial",
		"estatal",
	},
	"ciencia": {
		"ciencia", "científico", "investigación", "estudio", "descubrimiento",
		"laboratorio", "universidad", "académico",
	},
	"medio_ambiente": {
		"medio ambiente", "ambiental", "clima", "cambio climático",
		"contaminación", "sostenible", "ecológico", "naturaleza",
	},
}

// TopicAll is the wildcard topic key that matches every text.
const TopicAll = "all"

// Matches reports whether text matches the keyword set of topicKey.
// An empty or "all" topic matches everything; an unknown topic key matches
// nothing (its keyword set is empty).
func Matches(text, topicKey string) bool {
	if topicKey == "" || topicKey == TopicAll {
		return true
	}
	keywords, ok := topicKeywords[topicKey]
	if !ok {
		return false
	}

	lower := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Topics returns the known topic keys in sorted order, without the "all"
// wildcard.
func Topics() []string {
	keys := make([]string, 0, len(topicKeywords))
	for key := range topicKeywords {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
