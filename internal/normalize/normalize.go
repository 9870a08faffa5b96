// Package normalize canonicalizes raw page text before parsing.
//
// Normalization applies NFKC compatibility folding (full-width digits and
// punctuation become their ASCII forms), collapses whitespace runs to a
// single space, drops characters outside the allow-list, and trims the
// ends. It is pure, total, and idempotent.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// allowedPunct is the fixed punctuation set kept during normalization.
// Date and time notation depends on these surviving.
var allowedPunct = map[rune]bool{
	':': true, '-': true, '/': true, '.': true, ',': true,
	'(': true, ')': true, '[': true, ']': true, '~': true,
	'!': true, '?': true, '&': true, '+': true, '\'': true,
	'@': true, '#': true,
}

// Normalizer canonicalizes text, optionally admitting extra script ranges.
type Normalizer struct {
	extraRanges []*unicode.RangeTable
}

// New creates a Normalizer. Additional unicode ranges may be supplied for
// scripts that should survive normalization beyond letters and digits.
func New(extraRanges ...*unicode.RangeTable) *Normalizer {
	return &Normalizer{extraRanges: extraRanges}
}

// Normalize canonicalizes text with the default allow-list.
func Normalize(text string) string {
	return defaultNormalizer.Normalize(text)
}

var defaultNormalizer = New()

// Normalize collapses whitespace runs to a single space, strips characters
// outside the allow-list, and trims the ends. Empty or non-text input
// yields an empty string; it never fails.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded := norm.NFKC.String(text)

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true // leading spaces are dropped
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		case n.allowed(r):
			b.WriteRune(r)
			lastSpace = false
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// allowed reports whether a rune survives normalization.
func (n *Normalizer) allowed(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || allowedPunct[r] {
		return true
	}
	for _, rt := range n.extraRanges {
		if unicode.Is(rt, r) {
			return true
		}
	}
	return false
}

// FirstLine returns the first non-empty line of text, normalized.
func FirstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if normalized := Normalize(line); normalized != "" {
			return normalized
		}
	}
	return ""
}

// IsNoise reports whether normalized text consists solely of stopwords.
// Used to filter boilerplate fragments out of descriptions.
func IsNoise(text string, stopwords []string) bool {
	normalized := Normalize(text)
	if normalized == "" {
		return true
	}
	for _, word := range strings.Fields(normalized) {
		if !containsFold(stopwords, word) {
			return false
		}
	}
	return true
}

func containsFold(words []string, target string) bool {
	for _, w := range words {
		if strings.EqualFold(w, target) {
			return true
		}
	}
	return false
}
