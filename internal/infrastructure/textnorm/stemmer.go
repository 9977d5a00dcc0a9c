package textnorm

import (
	"strings"
	"unicode/utf8"
)

// Suffix-stripping stemmer for Portuguese, after the RSLP approach: ordered
// rule groups, each suffix carrying the minimum stem length that must remain
// after stripping. The first matching rule in a group wins and at most one
// rule per group applies.
type stemRule struct {
	suffix      string
	replacement string
	minStem     int
}

var pluralRules = []stemRule{
	{"ões", "ão", 3},
	{"ães", "ão", 3},
	{"ais", "al", 2},
	{"éis", "el", 2},
	{"óis", "ol", 2},
	{"res", "r", 3},
	{"ns", "m", 2},
	{"s", "", 2},
}

var nounRules = []stemRule{
	{"izações", "", 5},
	{"ização", "", 5},
	{"amento", "", 3},
	{"imento", "", 3},
	{"adora", "", 3},
	{"adores", "", 3},
	{"mente", "", 4},
	{"idade", "", 4},
	{"ístico", "", 4},
	{"ação", "", 3},
	{"ador", "", 3},
	{"ante", "", 3},
	{"ância", "", 4},
	{"ência", "", 4},
	{"ável", "", 2},
	{"ível", "", 3},
	{"ista", "", 4},
	{"oso", "", 3},
	{"osa", "", 3},
}

var verbRules = []stemRule{
	{"aríamos", "", 2},
	{"eríamos", "", 2},
	{"assem", "", 2},
	{"essem", "", 2},
	{"aremos", "", 2},
	{"eremos", "", 2},
	{"ariam", "", 2},
	{"eriam", "", 2},
	{"ando", "", 2},
	{"endo", "", 3},
	{"indo", "", 3},
	{"aram", "", 2},
	{"eram", "", 3},
	{"aria", "", 2},
	{"eria", "", 3},
	{"amos", "", 2},
	{"emos", "", 2},
	{"imos", "", 3},
	{"ara", "", 2},
	{"era", "", 3},
	{"ava", "", 2},
	{"asse", "", 2},
	{"esse", "", 3},
	{"ou", "", 3},
	{"ei", "", 3},
	{"am", "", 2},
	{"em", "", 2},
	{"ar", "", 2},
	{"er", "", 2},
	{"ir", "", 3},
}

// Stem reduces a lower-cased word to its radical form. It is deterministic
// and total: unknown shapes come back unchanged.
func Stem(word string) string {
	out := applyFirst(word, pluralRules)
	reduced := applyFirst(out, nounRules)
	if reduced == out {
		reduced = applyFirst(out, verbRules)
	}
	return trimThematicVowel(reduced)
}

func applyFirst(word string, rules []stemRule) string {
	for _, rule := range rules {
		if !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		stem := strings.TrimSuffix(word, rule.suffix)
		if utf8.RuneCountInString(stem) < rule.minStem {
			continue
		}
		return stem + rule.replacement
	}
	return word
}

func trimThematicVowel(word string) string {
	if utf8.RuneCountInString(word) <= 3 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "a"), strings.HasSuffix(word, "e"), strings.HasSuffix(word, "o"):
		return word[:len(word)-1]
	default:
		return word
	}
}
