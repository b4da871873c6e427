// Package table holds the filter, sort and windowing pipeline behind the
// result table, plus the per-table view state.
package table

import (
	"strings"

	"datachat-resultview/internal/model"
)

// Filter keeps rows where any field contains term, ignoring case. A term
// that is empty or only whitespace returns rows unchanged. The input slice is
// never modified.
func Filter(rows []model.Record, term string) []model.Record {
	if strings.TrimSpace(term) == "" {
		return rows
	}
	needle := strings.ToLower(term)
	out := make([]model.Record, 0)
	for _, r := range rows {
		if matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

// matches reports whether the lower-cased text of any field of r contains
// needle.
func matches(r model.Record, needle string) bool {
	for _, k := range r.Keys {
		if strings.Contains(strings.ToLower(model.ToString(r.Values[k])), needle) {
			return true
		}
	}
	return false
}
