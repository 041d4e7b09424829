// Package parsing provides text normalization and heading-based section extraction for resumes.
package parsing

import (
	"strings"
	"unicode"
)

// isWordRune reports whether r counts as a word character: a letter, any numeric
// character (digits, superscripts, roman numerals, fractions) or underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Tokenize lowercases text and splits it into runs of word characters.
// Punctuation acts as a separator, so "C++" becomes "c" and "Node.js" becomes "node", "js".
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// Normalize lowercases text, replaces non-word characters with spaces, collapses
// whitespace and drops stopwords. The remaining tokens are joined with single spaces.
func Normalize(text string, stopwords StopwordSet) string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return ""
	}

	kept := tokens[:0]
	for _, token := range tokens {
		if stopwords.Contains(token) {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

// NormalizeAll normalizes every text in order.
func NormalizeAll(texts []string, stopwords StopwordSet) []string {
	normalized := make([]string, len(texts))
	for i, text := range texts {
		normalized[i] = Normalize(text, stopwords)
	}
	return normalized
}
