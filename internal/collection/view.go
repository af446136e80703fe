package collection

import "strings"

// Searchable is implemented by records that can be filtered in a list view.
type Searchable interface {
	// SearchText returns the fields matched by the search term.
	SearchText() []string
	// Facet returns the value compared against the category filter.
	Facet() string
}

// DeriveView returns the items whose search fields contain term
// (case-insensitive) and, when category is non-empty, whose facet equals
// category exactly. Input order is preserved and items is never modified.
// The term is not trimmed: a lone space matches only fields containing one.
func DeriveView[T Searchable](items []T, term, category string) []T {
	if items == nil {
		return nil
	}
	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if category != "" && it.Facet() != category {
			continue
		}
		if needle != "" && !containsFold(it.SearchText(), needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Categories returns the distinct non-empty facets of items in order of first
// appearance.
func Categories[T Searchable](items []T) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, it := range items {
		f := it.Facet()
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func containsFold(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
