package chart

import (
	"fmt"
	"strings"
)

type Kind string

const (
	Bar     Kind = "bar"
	Line    Kind = "line"
	Area    Kind = "area"
	Pie     Kind = "pie"
	Radar   Kind = "radar"
	Funnel  Kind = "funnel"
	Treemap Kind = "treemap"
	Scatter Kind = "scatter"
)

var kinds = []Kind{Bar, Line, Area, Pie, Radar, Funnel, Treemap, Scatter}

// Kinds lists every supported chart kind in selector order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return Bar, nil
	}
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// PartOfWhole kinds plot a single series, one segment per category.
func (k Kind) PartOfWhole() bool {
	return k == Pie || k == Funnel || k == Treemap
}

// Resolution is the export size multiplier.
type Resolution string

const (
	Standard Resolution = "standard"
	High     Resolution = "high"
)

func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return Standard, nil
	case Standard, High:
		return r, nil
	default:
		return "", fmt.Errorf("unknown resolution %q", s)
	}
}

func (r Resolution) Scale() int {
	if r == High {
		return 2
	}
	return 1
}

// FileName is the download name of an exported chart image.
func FileName(k Kind, r Resolution) string {
	return fmt.Sprintf("%s_graph_%s.png", k, r)
}
