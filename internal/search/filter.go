// Package search implements the list filter shared by the dashboard pages.
package search

import "strings"

// Filter returns the records for which the lowercased query is a substring of
// any lowercased value from fields. Order is preserved. An empty query returns
// records unchanged.
func Filter[T any](records []T, query string, fields func(T) []string) []T {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if Matches(fields(r), q) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether the already lowercased query occurs in any value.
func Matches(values []string, lowerQuery string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}
