package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the shape of a JSON tree node
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindObject
	KindArray
)

// Property is one named member of an object node. Properties keep the order
// they appeared in the source document; the comparer's output order depends
// on it.
type Property struct {
	Name  string
	Value *Node
}

// Node is one node of an ordered JSON tree: an object with ordered
// properties, an array, a scalar or a null. Trees are produced by serializing
// entity snapshots and are read-only once parsed.
type Node struct {
	kind  Kind
	value string
	props []Property
	elems []*Node
}

// Kind returns the node's shape
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// Scalar returns the scalar literal: the string value for strings, the
// numeric literal for numbers, "true"/"false" for booleans. Empty for
// non-scalar nodes.
func (n *Node) Scalar() string {
	if n == nil {
		return ""
	}
	return n.value
}

// Properties returns the ordered properties of an object node
func (n *Node) Properties() []Property {
	if n == nil {
		return nil
	}
	return n.props
}

// Property returns the named property's value, or nil when absent
func (n *Node) Property(name string) *Node {
	if n == nil {
		return nil
	}
	for _, p := range n.props {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// HasProperty reports whether the object node carries the named property,
// even when its value is null.
func (n *Node) HasProperty(name string) bool {
	if n == nil {
		return false
	}
	for _, p := range n.props {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Elements returns the ordered elements of an array node
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	return n.elems
}

// NewScalar creates a scalar node from a literal value
func NewScalar(value string) *Node {
	return &Node{kind: KindScalar, value: value}
}

// NewArray creates an array node from elements
func NewArray(elems ...*Node) *Node {
	return &Node{kind: KindArray, elems: elems}
}

// NewObject creates an object node from ordered properties
func NewObject(props ...Property) *Node {
	return &Node{kind: KindObject, props: props}
}

// Parse builds an ordered tree from a JSON document. Unlike unmarshalling
// into maps, object property order is preserved exactly as stored.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	node, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("audit: failed to parse tree: %w", err)
	}
	return node, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return &Node{kind: KindScalar, value: v}, nil
	case json.Number:
		return &Node{kind: KindScalar, value: v.String()}, nil
	case bool:
		if v {
			return &Node{kind: KindScalar, value: "true"}, nil
		}
		return &Node{kind: KindScalar, value: "false"}, nil
	case nil:
		return &Node{kind: KindNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (*Node, error) {
	node := &Node{kind: KindObject}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		node.props = append(node.props, Property{Name: key, Value: value})
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

func parseArray(dec *json.Decoder) (*Node, error) {
	node := &Node{kind: KindArray}
	for dec.More() {
		elem, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		node.elems = append(node.elems, elem)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

// Equal reports deep equality of two trees
func (n *Node) Equal(other *Node) bool {
	if n.Kind() != other.Kind() {
		return false
	}
	switch n.Kind() {
	case KindNull:
		return true
	case KindScalar:
		return n.value == other.value
	case KindObject:
		if len(n.props) != len(other.props) {
			return false
		}
		for i, p := range n.props {
			if p.Name != other.props[i].Name || !p.Value.Equal(other.props[i].Value) {
				return false
			}
		}
		return true
	case KindArray:
		if len(n.elems) != len(other.elems) {
			return false
		}
		for i, e := range n.elems {
			if !e.Equal(other.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}
