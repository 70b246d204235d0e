package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const UnknownGroup = "Unknown"

// Filter keeps items whose name contains query, ignoring case.
func Filter[T any](items []T, query string, name func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q == "" || strings.Contains(strings.ToLower(name(it)), q) {
			out = append(out, it)
		}
	}
	return out
}

// Sort returns a copy of items ordered by key using locale collation.
func Sort[T any](items []T, key func(T) string, desc bool) []T {
	out := append([]T(nil), items...)
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(key(out[i])), strings.ToLower(key(out[j]))
		if desc {
			return col.CompareString(b, a) < 0
		}
		return col.CompareString(a, b) < 0
	})
	return out
}

type Group[T any] struct {
	Name  string
	Items []T
}

// GroupBy buckets items in first-seen order. Items with no key land in
// UnknownGroup.
func GroupBy[T any](items []T, key func(T) string) []Group[T] {
	index := make(map[string]int)
	var groups []Group[T]
	for _, it := range items {
		k := key(it)
		if k == "" {
			k = UnknownGroup
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Name: k})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// Expansion tracks which groups are expanded. Groups start collapsed.
type Expansion map[string]bool

func (e Expansion) Toggle(group string) bool {
	e[group] = !e[group]
	return e[group]
}

func (e Expansion) Expanded(group string) bool {
	return e[group]
}
