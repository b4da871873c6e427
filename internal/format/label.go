// Package format turns raw column names, category values and numbers into
// display strings for tables, chart axes and tooltips.
package format

import (
	"math"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxCategoryLabel bounds axis label width.
const MaxCategoryLabel = 14

const ellipsis = "..."

// Casers keep state and cannot be shared between goroutines.
func title(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// Header converts a raw column name to a table header:
// "branch_name" -> "Branch Name".
func Header(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	return title(strings.Join(words, " "))
}

// Category formats an index value for an axis: underscores and camelCase
// boundaries become spaces, every word is capitalized and the result is
// truncated to MaxCategoryLabel runes.
func Category(value string) string {
	return Truncate(title(splitWords(value)), MaxCategoryLabel)
}

// Truncate cuts s to max runes and appends an ellipsis when it was longer.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + ellipsis
}

func splitWords(s string) string {
	var b strings.Builder
	runes := []rune(strings.ReplaceAll(s, "_", " "))
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Number renders v with thousands separators and at most two decimals.
func Number(v float64) string {
	v = math.Round(v*100) / 100
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.Commaf(v)
}
