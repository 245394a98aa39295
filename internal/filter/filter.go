// Package filter holds the predicate pieces shared by the directory, blog
// index and FAQ listings: a case-insensitive search over designated fields
// combined with exact-match selectors that an "all" sentinel switches off.
package filter

import "strings"

// All disables a selector dimension. An empty selector does the same.
const All = "all"

// ContainsFold reports whether term occurs in any of fields, ignoring case.
// A blank term matches everything.
func ContainsFold(term string, fields ...string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}

	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}

	return false
}

// Selector reports whether got satisfies the selector want.
func Selector(want, got string) bool {
	if IsWildcard(want) {
		return true
	}

	return want == got
}

func IsWildcard(want string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(want, All)
}

// Apply returns the items for which keep is true, in their original order.
func Apply[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}

	return out
}
