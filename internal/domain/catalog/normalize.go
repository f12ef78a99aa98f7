package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks strips combining diacritical marks after NFD decomposition,
// turning "şekerli" into "sekerli" and "türk" into "turk".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// turkishLower maps the Turkish dotted/dotless i pairs before the generic
// lowercasing, so "İstanbul" becomes "istanbul" and not "i̇stanbul".
var turkishLower = strings.NewReplacer("İ", "i", "I", "ı")

// Normalize lowercases text with Turkish casing rules, folds diacritics and
// trims surrounding whitespace. All catalog keys, utterance tokens and
// variation names are compared in this normalized form.
func Normalize(s string) string {
	s = turkishLower.Replace(s)
	s = strings.ToLower(s)
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}
	// Dotless ı survives mark folding; collapse it for matching robustness.
	s = strings.ReplaceAll(s, "ı", "i")
	return strings.TrimSpace(s)
}

// Tokens normalizes text and splits it into whitespace-separated tokens with
// punctuation stripped from token edges.
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
