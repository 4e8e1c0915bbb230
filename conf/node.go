package conf

import (
	"github.com/goccy/go-yaml"
)

// Kind discriminates the variants of the [Node] tagged union.
type Kind int

const (
	// KindNull represents an explicit null scalar.
	KindNull Kind = iota

	// KindBool represents a boolean scalar.
	KindBool

	// KindInt represents an integer scalar.
	KindInt

	// KindFloat represents a floating-point scalar.
	KindFloat

	// KindString represents a string scalar.
	KindString

	// KindSequence represents an ordered list of nodes.
	KindSequence

	// KindMapping represents an ordered, string-keyed map of nodes.
	KindMapping
)

// String returns a string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindSequence:
		return "Sequence"
	case KindMapping:
		return "Mapping"
	default:
		return "<unknown kind>"
	}
}

// IsScalar reports whether the kind is a leaf scalar.
func (k Kind) IsScalar() bool {
	switch k {
	case KindSequence, KindMapping:
		return false
	default:
		return true
	}
}

// Pair is a single key/value entry of a mapping node.
// Mapping entries are ordered and keys are unique and case-sensitive.
type Pair struct {
	Key   string
	Value *Node
}

// Node is the tagged union over every value a configuration document can
// hold: a scalar (null, bool, int, float, string), an ordered sequence, or
// an ordered string-keyed mapping.
//
// Exactly one of the value fields is meaningful, selected by Kind.
type Node struct {
	Kind Kind

	Bool  bool
	Int   int64
	Float float64
	Str   string

	Seq   []*Node
	Pairs []Pair

	// Line is the 1-based source line the node was parsed from,
	// or zero for synthesized nodes.
	Line int
}

// NewNull creates a null scalar node.
func NewNull() *Node { return &Node{Kind: KindNull} }

// NewBool creates a boolean scalar node.
func NewBool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// NewInt creates an integer scalar node.
func NewInt(i int64) *Node { return &Node{Kind: KindInt, Int: i} }

// NewFloat creates a floating-point scalar node.
func NewFloat(f float64) *Node { return &Node{Kind: KindFloat, Float: f} }

// NewString creates a string scalar node.
func NewString(s string) *Node { return &Node{Kind: KindString, Str: s} }

// NewSequence creates a sequence node with the given elements.
func NewSequence(elems ...*Node) *Node {
	return &Node{Kind: KindSequence, Seq: elems}
}

// NewMapping creates a mapping node with the given entries.
func NewMapping(pairs ...Pair) *Node {
	return &Node{Kind: KindMapping, Pairs: pairs}
}

// Get returns the value stored under key, if the node is a mapping and the
// key is present.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}

	for _, p := range n.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}

	return nil, false
}

// Has reports whether the mapping contains key.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)

	return ok
}

// Set stores value under key, replacing an existing entry in place or
// appending a new entry at the end. It panics if the node is not a mapping.
func (n *Node) Set(key string, value *Node) {
	if n.Kind != KindMapping {
		panic("conf: Set on non-mapping node")
	}

	for i := range n.Pairs {
		if n.Pairs[i].Key == key {
			n.Pairs[i].Value = value

			return
		}
	}

	n.Pairs = append(n.Pairs, Pair{Key: key, Value: value})
}

// Keys returns the mapping keys in document order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindMapping {
		return nil
	}

	keys := make([]string, len(n.Pairs))
	for i, p := range n.Pairs {
		keys[i] = p.Key
	}

	return keys
}

// Len returns the number of elements of a sequence or entries of a mapping,
// and zero for scalars.
func (n *Node) Len() int {
	switch n.Kind {
	case KindSequence:
		return len(n.Seq)
	case KindMapping:
		return len(n.Pairs)
	default:
		return 0
	}
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := *n

	switch n.Kind {
	case KindSequence:
		c.Seq = make([]*Node, len(n.Seq))
		for i, e := range n.Seq {
			c.Seq[i] = e.Clone()
		}

	case KindMapping:
		c.Pairs = make([]Pair, len(n.Pairs))
		for i, p := range n.Pairs {
			c.Pairs[i] = Pair{Key: p.Key, Value: p.Value.Clone()}
		}
	}

	return &c
}

// Value converts the node to its native Go representation.
// Mappings become [yaml.MapSlice] so that key order survives serialization.
func (n *Node) Value() any {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindNull:
		return nil

	case KindBool:
		return n.Bool

	case KindInt:
		return n.Int

	case KindFloat:
		return n.Float

	case KindString:
		return n.Str

	case KindSequence:
		elems := make([]any, len(n.Seq))
		for i, e := range n.Seq {
			elems[i] = e.Value()
		}

		return elems

	case KindMapping:
		items := make(yaml.MapSlice, len(n.Pairs))
		for i, p := range n.Pairs {
			items[i] = yaml.MapItem{Key: p.Key, Value: p.Value.Value()}
		}

		return items

	default:
		return nil
	}
}

// FromValue converts a native Go value to a Node.
// Map keys are emitted in insertion order for [yaml.MapSlice] and in sorted
// order for map[string]any, whose iteration order is undefined.
func FromValue(v any) (*Node, error) {
	return fromValue(v)
}
