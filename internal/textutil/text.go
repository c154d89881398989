// Package textutil holds the string handling shared by the knowledge store, the
// product matcher and the intent rules.
package textutil

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lower-cases s and trims surrounding whitespace. Every lookup key in the
// bot goes through this function.
func Normalize(s string) string {
	// Casers keep internal state, so one is built per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Capitalize upper-cases the first letter of s and lower-cases the remainder.
// Applying it twice gives the same result as applying it once.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

// ExtractKeyword removes every occurrence of each lead-in phrase from input, drops
// question marks and trims the result. The removal is literal substring removal,
// so a lead-in such as "is" is also removed from inside longer words. Longer phrases
// are removed first, which makes the result independent of the order of leadIns.
func ExtractKeyword(input string, leadIns ...string) string {
	ordered := append([]string(nil), leadIns...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	result := input
	for _, leadIn := range ordered {
		if leadIn == "" {
			continue
		}
		result = strings.ReplaceAll(result, leadIn, "")
	}
	return strings.TrimSpace(strings.ReplaceAll(result, "?", ""))
}

// ContainsAny reports whether s contains any of the given substrings
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// EqualsAny reports whether s equals one of the candidates exactly
func EqualsAny(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}

// HasAnyPrefix reports whether s starts with any of the given prefixes
func HasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
