package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases, trims and strips diacritics, so "Música " and
// "musica" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	// Chains keep internal buffers; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Tokenize normalizes s and splits it on non-alphanumeric boundaries.
func Tokenize(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// NormalizePhrase collapses s into its tokens joined by single spaces.
func NormalizePhrase(s string) string {
	return strings.Join(Tokenize(s), " ")
}

// NormalizeKeywords lower-cases, trims and deduplicates a keyword list,
// dropping empty entries and keeping first-seen order.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.Join(strings.Fields(strings.ToLower(kw)), " ")
		if kw == "" {
			continue
		}
		key := NormalizePhrase(kw)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// avoidStopwords are dropped from gifts-to-avoid text before matching.
var avoidStopwords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "das": {}, "dos": {}, "e": {}, "ou": {}, "com": {}, "sem": {},
	"para": {}, "por": {}, "que": {}, "nada": {}, "nao": {}, "nem": {}, "um": {}, "uma": {},
	"os": {}, "as": {}, "em": {}, "no": {}, "na": {}, "tipo": {}, "coisas": {}, "muito": {},
}

func contentTokens(s string) []string {
	var out []string
	for _, tok := range Tokenize(s) {
		if len([]rune(tok)) < 3 {
			continue
		}
		if _, stop := avoidStopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}
