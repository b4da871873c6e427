package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// node is a decoded JSON value. Objects keep their key order.
type node struct {
	kind   nodeKind
	scalar interface{}
	keys   []string
	fields map[string]*node
	items  []*node
}

type nodeKind int

const (
	scalarNode nodeKind = iota
	objectNode
	arrayNode
)

var errTrailingData = errors.New("unexpected data after top-level value")

func decode(payload []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	n, err := readNode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return n, nil
}

func readNode(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return &node{kind: scalarNode, scalar: tok}, nil
	}
	switch delim {
	case '{':
		n := &node{kind: objectNode, fields: make(map[string]*node)}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyTok)
			}
			child, err := readNode(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := n.fields[key]; !dup {
				n.keys = append(n.keys, key)
			}
			n.fields[key] = child
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return n, nil
	case '[':
		n := &node{kind: arrayNode}
		for dec.More() {
			child, err := readNode(dec)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, child)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// value flattens n into a cell value. Nested objects and arrays become their
// compact JSON text.
func (n *node) value() interface{} {
	if n.kind == scalarNode {
		return n.scalar
	}
	var buf bytes.Buffer
	n.writeJSON(&buf)
	return buf.String()
}

func (n *node) writeJSON(buf *bytes.Buffer) {
	switch n.kind {
	case objectNode:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			n.fields[k].writeJSON(buf)
		}
		buf.WriteByte('}')
	case arrayNode:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.writeJSON(buf)
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(n.scalar)
		if err != nil {
			buf.WriteString("null")
			return
		}
		buf.Write(b)
	}
}
