// Package autocomplete suggests ticker symbols for partial input.
package autocomplete

import (
	"sort"
	"strings"
)

// MaxSuggestions caps the suggestion list.
const MaxSuggestions = 8

// Index is a preloaded, de-duplicated symbol list.
type Index struct {
	symbols []string
}

// NewIndex builds an index over symbols. Blank and duplicate entries are
// dropped; symbols are kept upper case.
func NewIndex(symbols []string) *Index {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return &Index{symbols: out}
}

// Len returns the number of indexed symbols.
func (i *Index) Len() int {
	return len(i.symbols)
}

// Suggest returns up to MaxSuggestions symbols containing input. Symbols
// that start with input come first, each group in lexicographic order.
func (i *Index) Suggest(input string) []string {
	return Suggest(i.symbols, input, MaxSuggestions)
}

// Suggest filters symbols by substring containment of the normalized input,
// ranks prefix matches ahead of other matches, sorts each rank
// lexicographically and truncates to limit. Empty input yields nothing.
func Suggest(symbols []string, input string, limit int) []string {
	q := Normalize(input)
	if q == "" || limit <= 0 {
		return []string{}
	}

	var prefix, contains []string
	for _, s := range symbols {
		switch {
		case strings.HasPrefix(s, q):
			prefix = append(prefix, s)
		case strings.Contains(s, q):
			contains = append(contains, s)
		}
	}
	sort.Strings(prefix)
	sort.Strings(contains)

	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		return []string{}
	}
	return out
}

// Normalize trims and upper-cases ticker input.
func Normalize(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}
