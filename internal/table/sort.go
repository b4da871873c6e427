package table

import (
	"fmt"
	"sort"
	"strings"

	"datachat-resultview/internal/model"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Asc, nil
	case Asc, Desc:
		return d, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// Sort returns a stably sorted copy of rows ordered by column. Nulls compare
// greater than every value, so they land last ascending and first
// descending. Numeric columns compare as numbers and put cells that are not
// numbers after them; everything else compares as case-insensitive strings.
func Sort(rows []model.Record, column model.Column, dir Direction) []model.Record {
	out := make([]model.Record, len(rows))
	copy(out, rows)
	if column.Key == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j], column)
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// compare returns -1, 0 or 1.
func compare(a, b model.Record, column model.Column) int {
	aNull, bNull := a.IsNull(column.Key), b.IsNull(column.Key)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	}

	av, bv := a.Values[column.Key], b.Values[column.Key]
	if column.IsNumeric() {
		// numbers rank before any other cell in a numeric column
		af, aok := model.ToNumber(av)
		bf, bok := model.ToNumber(bv)
		switch {
		case aok && bok:
			return compareNumbers(af, bf)
		case aok:
			return -1
		case bok:
			return 1
		}
	}
	return strings.Compare(strings.ToLower(model.ToString(av)), strings.ToLower(model.ToString(bv)))
}

func compareNumbers(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
