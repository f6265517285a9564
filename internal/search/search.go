// Package search filters in-memory listings by a free-text term.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filter keeps the items where any field returned by fields contains term,
// compared with Unicode case folding. A blank term returns items unchanged.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	needle := fold(term)
	if needle == "" {
		return items
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(fold(field), needle) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

func fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(transform.Chain(norm.NFC, cases.Fold()), s)
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}
