// Package textutil provides text normalization utilities for user labels and
// filesystem-safe names.
//
// User labels arrive as free-form text from the intake form. Sanitization
// lowercases the label, folds diacritics to their base characters, and strips
// everything outside a restricted charset so the result is safe to embed in a
// session directory name.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// labelStripPattern matches character runs disallowed in sanitized labels.
var labelStripPattern = regexp.MustCompile(`[^a-z0-9_-]+`)

// fallbackLabel is used when sanitization removes every character.
const fallbackLabel = "user"

// SanitizeLabel normalizes a user-supplied label into a lowercase identifier
// containing only [a-z0-9_-]. Diacritics are folded to their base characters
// before stripping. An empty result falls back to "user".
func SanitizeLabel(label string) string {
	folded := foldDiacritics(strings.TrimSpace(label))
	lowered := strings.ToLower(folded)
	cleaned := labelStripPattern.ReplaceAllString(lowered, "")
	if cleaned == "" {
		return fallbackLabel
	}
	return cleaned
}

// foldDiacritics decomposes the input and drops combining marks, so "Hüseyin"
// becomes "Huseyin". Transform failures return the input unchanged.
func foldDiacritics(value string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, value)
	if err != nil {
		return value
	}
	return folded
}
