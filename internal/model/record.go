package model

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Value is one scalar cell of a Record: nil, string, float64 or bool.
type Value interface{}

// Record is a row of a chatbot answer. Keys keeps the document order of the
// payload, Values holds the cells.
type Record struct {
	Keys   []string         `json:"-"`
	Values map[string]Value `json:"-"`
}

func NewRecord() Record {
	return Record{Values: make(map[string]Value)}
}

// Set appends key on first use and overwrites the value otherwise.
func (r *Record) Set(key string, v Value) {
	if r.Values == nil {
		r.Values = make(map[string]Value)
	}
	if _, ok := r.Values[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = v
}

func (r Record) Get(key string) (Value, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// IsNull reports whether key is missing or holds null.
func (r Record) IsNull(key string) bool {
	v, ok := r.Values[key]
	return !ok || v == nil
}

func (r Record) Len() int { return len(r.Keys) }

// Clone returns a copy that shares no maps or slices with r.
func (r Record) Clone() Record {
	c := Record{
		Keys:   append([]string(nil), r.Keys...),
		Values: make(map[string]Value, len(r.Values)),
	}
	for k, v := range r.Values {
		c.Values[k] = v
	}
	return c
}

// MarshalJSON writes the record as an object in key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v := r.Values[k]
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v = nil
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToNumber coerces v to a finite float64. Strings are trimmed and parsed;
// nil, booleans and empty strings are not numeric.
func ToNumber(v Value) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NumberOrZero is ToNumber with non-numeric values mapped to 0.
func NumberOrZero(v Value) float64 {
	f, _ := ToNumber(v)
	return f
}

// ToString renders a value the way it is shown in a table cell.
func ToString(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
