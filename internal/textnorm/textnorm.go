// Package textnorm canonicalizes text for matching. Every string that
// reaches the fuzzy index, indexed field text and user queries alike,
// passes through Normalize first, so "Óptica" and "optica" compare equal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes.
// The chain is stateful, so each call builds its own transformer.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the input
		// so Normalize stays total.
		return s
	}
	return out
}

// Normalize lowercases, strips diacritics, and trims surrounding
// whitespace. It never fails; empty input yields the empty string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(stripMarks(s)))
}

// Tokens normalizes s and splits it into whitespace-separated tokens.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
