// Package bibutil collects the small string routines used around
// bibliographic data: key sanitisation, brace shaving, keyword splitting,
// publication dates and link cleanup.
package bibutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// illegalKeyChars are removed from citation keys in addition to whitespace.
const illegalKeyChars = "#{}\\\"~,^'"

var specialReplacer = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss",
	"æ", "ae", "Æ", "Ae",
	"œ", "oe", "Œ", "Oe",
	"ø", "oe", "Ø", "Oe",
	"å", "aa", "Å", "Aa",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"þ", "th", "Þ", "Th",
)

// CapitalizeFirst upper-cases the first rune and lower-cases the rest.
func CapitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// ShaveString trims whitespace and removes one pair of enclosing braces or
// double quotes. Mismatched delimiters are left alone.
func ShaveString(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 {
		return trimmed
	}
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	if (first == '{' && last == '}') || (first == '"' && last == '"') {
		return trimmed[1 : len(trimmed)-1]
	}
	return trimmed
}

// CheckLegalKey strips characters BibTeX does not accept in citation keys
// and folds non-ASCII letters into ASCII spellings.
func CheckLegalKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if unicode.IsSpace(r) || strings.ContainsRune(illegalKeyChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return ReplaceSpecialCharacters(b.String())
}

// ReplaceSpecialCharacters expands umlauts and ligatures and drops the
// remaining combining diacritics ("Müller" -> "Mueller", "é" -> "e").
func ReplaceSpecialCharacters(s string) string {
	if s == "" {
		return ""
	}
	replaced := specialReplacer.Replace(s)
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(folder, replaced)
	if err != nil {
		return replaced
	}
	return out
}

// SeparatedKeywords splits a keyword field on commas and semicolons,
// dropping blanks and duplicates while keeping the original order.
func SeparatedKeywords(keywords string) []string {
	parts := strings.FieldsFunc(keywords, func(r rune) bool {
		return r == ',' || r == ';'
	})

	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		word := strings.TrimSpace(part)
		if word == "" {
			continue
		}
		if _, exists := seen[word]; exists {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}
