// Package schema infers a tabular shape from an untyped chatbot answer.
package schema

import (
	"bytes"

	"datachat-resultview/internal/format"
	"datachat-resultview/internal/model"

	"github.com/rs/zerolog/log"
)

// AnswerField is the envelope key the chatbot puts its result under.
const AnswerField = "answer"

// Result is the normalized form every downstream component works with.
type Result struct {
	Rows    []model.Record `json:"rows"`
	Columns []model.Column `json:"columns"`
	// HasNumericData drives the default view: chart when true, table otherwise.
	HasNumericData bool `json:"hasNumericData"`
	// PlainText is set when the payload carries no structure at all.
	PlainText string `json:"plainText,omitempty"`
}

// Infer never fails: malformed input degrades to an empty result that carries
// the raw text for plain rendering.
func Infer(payload []byte) Result {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return Result{Rows: []model.Record{}, Columns: []model.Column{}}
	}

	root, err := decode(trimmed)
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(trimmed)).Msg("Answer payload is not JSON, falling back to plain text")
		return plainText(string(trimmed))
	}

	// A JSON string may itself hold an encoded answer.
	if s, ok := root.scalar.(string); ok && root.kind == scalarNode {
		inner, err := decode([]byte(s))
		if err != nil || inner.kind == scalarNode {
			return plainText(s)
		}
		root = inner
	}

	items, ok := extractItems(root)
	if !ok {
		return plainText(string(trimmed))
	}
	return fromItems(items)
}

func plainText(s string) Result {
	return Result{Rows: []model.Record{}, Columns: []model.Column{}, PlainText: s}
}

// extractItems resolves the payload variants: an array of rows, an object
// with an answer field (array or single value), or a bare object.
func extractItems(root *node) ([]*node, bool) {
	switch root.kind {
	case arrayNode:
		return root.items, true
	case objectNode:
		answer, ok := root.fields[AnswerField]
		if !ok {
			return []*node{root}, true
		}
		switch {
		case answer.kind == arrayNode:
			return answer.items, true
		case answer.kind == scalarNode && answer.scalar == nil:
			return nil, true
		default:
			return []*node{answer}, true
		}
	default:
		return nil, false
	}
}

// fromItems builds rows from decoded items. The first item decides the
// schema.
func fromItems(items []*node) Result {
	rows := make([]model.Record, 0, len(items))
	if len(items) == 0 {
		return FromRecords(rows)
	}

	wrap := items[0].kind != objectNode
	for _, it := range items {
		rec := model.NewRecord()
		if wrap || it.kind != objectNode {
			rec.Set(model.ValueColumn, it.value())
		} else {
			for _, k := range it.keys {
				rec.Set(k, it.fields[k].value())
			}
		}
		rows = append(rows, rec)
	}
	return FromRecords(rows)
}

// FromRecords infers columns and numeric-ness for rows that are already
// records.
func FromRecords(rows []model.Record) Result {
	if rows == nil {
		rows = []model.Record{}
	}
	cols := InferColumns(rows)
	return Result{
		Rows:           rows,
		Columns:        cols,
		HasNumericData: HasNumericData(rows, cols),
	}
}

// InferColumns takes the keys of the first row. Kind is decided from that row
// only; later rows are not re-validated.
func InferColumns(rows []model.Record) []model.Column {
	if len(rows) == 0 {
		return []model.Column{}
	}
	first := rows[0]
	cols := make([]model.Column, 0, first.Len())
	for _, k := range first.Keys {
		kind := model.KindText
		if _, ok := model.ToNumber(first.Values[k]); ok {
			kind = model.KindNumeric
		}
		cols = append(cols, model.Column{Key: k, Label: format.Header(k), Kind: kind})
	}
	return cols
}

// HasNumericData reports whether any row has a value coercible to a finite
// number in any schema column.
func HasNumericData(rows []model.Record, columns []model.Column) bool {
	for _, r := range rows {
		for _, c := range columns {
			if _, ok := model.ToNumber(r.Values[c.Key]); ok {
				return true
			}
		}
	}
	return false
}

// NumericColumns lists the keys of numeric columns in schema order.
func NumericColumns(columns []model.Column) []string {
	var keys []string
	for _, c := range columns {
		if c.IsNumeric() {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
