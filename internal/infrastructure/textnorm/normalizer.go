// Package textnorm cleans extracted email text before prompt construction.
// Both modes are pure functions of the input string.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	urlPlaceholder   = "[URL]"
	emailPlaceholder = "[EMAIL]"
)

var (
	urlPattern   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"]+`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	spacePattern = regexp.MustCompile(`\s+`)
)

type Normalizer struct {
	advanced  bool
	stopwords map[string]struct{}
}

// New builds a normalizer. The stopword set only matters in advanced mode and
// is copied, so the caller's slice stays untouched.
func New(advanced bool, stopwords []string) *Normalizer {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Normalizer{advanced: advanced, stopwords: set}
}

// Normalize redacts URLs and email addresses, then collapses whitespace. In
// advanced mode the result is further reduced to stopword-free stems.
func (n *Normalizer) Normalize(text string) string {
	out := urlPattern.ReplaceAllString(text, urlPlaceholder)
	out = emailPattern.ReplaceAllString(out, emailPlaceholder)
	out = spacePattern.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)

	if !n.advanced {
		return out
	}
	return n.reduce(out)
}

func (n *Normalizer) reduce(text string) string {
	var stems []string
	for _, token := range strings.Fields(strings.ToLower(text)) {
		if !alphabetic(token) {
			continue
		}
		if utf8.RuneCountInString(token) <= 2 {
			continue
		}
		if _, stop := n.stopwords[token]; stop {
			continue
		}
		stems = append(stems, Stem(token))
	}
	return strings.Join(stems, " ")
}

func alphabetic(token string) bool {
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return token != ""
}
