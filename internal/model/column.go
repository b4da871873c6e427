package model

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
)

// ValueColumn is the synthetic column used when rows carry no keys.
const ValueColumn = "Value"

type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
}

func (c Column) IsNumeric() bool { return c.Kind == KindNumeric }

// FindColumn returns the column named key.
func FindColumn(columns []Column, key string) (Column, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}
