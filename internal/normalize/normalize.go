// Package normalize canonicalizes signup attributes before matching.
// Every function is pure: identical input yields identical output and
// malformed input degrades to an empty result instead of an error.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Phone strips all non-digit characters and drops the US country-code
// prefix when the result is 11 digits starting with "1".
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}

// Email lowercases and trims an email address.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// FullName tokenizes a free-form name on whitespace. One token fills only
// the first name; two fill first/last; with more than two the first token
// is the first name and the last token is the last name. Middle tokens are
// discarded on purpose: the matching strategies are tuned against the
// two-token convention, so a parser that preserved middle names would
// change match behavior downstream.
func FullName(raw string) (first, last string) {
	tokens := strings.Fields(raw)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return tokens[0], tokens[len(tokens)-1]
	}
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips accents so "José" compares equal to "jose".
func Fold(s string) string {
	result, _, _ := transform.String(stripAccents, strings.ToLower(s))
	return result
}

// NameSimilarity computes word-overlap similarity between two names in
// [0, 1]. Identical folded strings score 1.0 and substring containment
// scores 0.8; otherwise the score is the count of shared tokens longer
// than one character divided by the larger token count.
func NameSimilarity(a, b string) float64 {
	a = Fold(strings.TrimSpace(a))
	b = Fold(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	setB := make(map[string]bool, len(tokensB))
	for _, w := range tokensB {
		setB[w] = true
	}

	shared := 0
	for _, w := range tokensA {
		if len(w) > 1 && setB[w] {
			shared++
		}
	}

	larger := len(tokensA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}
	if larger == 0 {
		return 0
	}
	return float64(shared) / float64(larger)
}

// TokenEqual reports whether two name tokens are equal after folding.
// Empty tokens never match anything.
func TokenEqual(a, b string) bool {
	return a != "" && Fold(a) == Fold(b)
}
