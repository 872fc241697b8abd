package ir

import (
	"maps"
	"slices"
	"strconv"
)

// Node is one value in an attribute tree.
//
// For ObjectType nodes, Fields holds the keys in document order and
// Values the corresponding values. For ArrayType nodes only Values is
// used. Scalar nodes use the field matching their Type; numeric nodes
// additionally keep the raw literal in Num so a loaded document
// round-trips byte-identically.
type Node struct {
	Type Type

	Bool   bool
	Int    int64
	Float  float64
	String string
	Num    string

	Fields []string
	Values []*Node
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: IntType, Int: v}
}

func FromFloat(v float64) *Node {
	return &Node{Type: FloatType, Float: v}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func NewArray() *Node {
	return &Node{Type: ArrayType}
}

func NewObject() *Node {
	return &Node{Type: ObjectType}
}

func FromSlice(vs []*Node) *Node {
	return &Node{Type: ArrayType, Values: vs}
}

// FromInts builds an array of integer scalars.
func FromInts(vs []int64) *Node {
	res := NewArray()
	res.Values = make([]*Node, len(vs))
	for i, v := range vs {
		res.Values[i] = FromInt(v)
	}
	return res
}

// FromMap builds an object with keys in sorted order.
func FromMap(m map[string]*Node) *Node {
	res := NewObject()
	keys := slices.Sorted(maps.Keys(m))
	res.Fields = make([]string, 0, len(keys))
	res.Values = make([]*Node, 0, len(keys))
	for _, k := range keys {
		res.Fields = append(res.Fields, k)
		res.Values = append(res.Values, m[k])
	}
	return res
}

func (n *Node) Clone() *Node {
	res := &Node{}
	return n.CloneTo(res)
}

func (n *Node) CloneTo(dst *Node) *Node {
	dst.Type = n.Type
	dst.Bool = n.Bool
	dst.Int = n.Int
	dst.Float = n.Float
	dst.String = n.String
	dst.Num = n.Num
	dst.Fields = slices.Clone(n.Fields)
	if n.Values != nil {
		dst.Values = make([]*Node, len(n.Values))
		for i, v := range n.Values {
			dst.Values[i] = v.Clone()
		}
	} else {
		dst.Values = nil
	}
	return dst
}

// Field returns the value stored under key on an object node.
func (n *Node) Field(key string) (*Node, bool) {
	if n.Type != ObjectType {
		return nil, false
	}
	for i, f := range n.Fields {
		if f == key {
			return n.Values[i], true
		}
	}
	return nil, false
}

// SetField replaces the value under key, appending the key if absent.
func (n *Node) SetField(key string, v *Node) {
	for i, f := range n.Fields {
		if f == key {
			n.Values[i] = v
			return
		}
	}
	n.Fields = append(n.Fields, key)
	n.Values = append(n.Values, v)
}

// Append adds a value to an array node.
func (n *Node) Append(vs ...*Node) {
	n.Values = append(n.Values, vs...)
}

func (n *Node) Len() int {
	return len(n.Values)
}

// AsInt reports the integer value of an IntType node.
func (n *Node) AsInt() (int64, bool) {
	if n == nil || n.Type != IntType {
		return 0, false
	}
	return n.Int, true
}

// AsUint32 reports an IntType value that fits an identity hash.
func (n *Node) AsUint32() (uint32, bool) {
	v, ok := n.AsInt()
	if !ok || v < 0 || v > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(v), true
}

// Ints collects the integer elements of an array node, ignoring
// non-integers.
func (n *Node) Ints() []int64 {
	if n == nil || n.Type != ArrayType {
		return nil
	}
	res := make([]int64, 0, len(n.Values))
	for _, v := range n.Values {
		if i, ok := v.AsInt(); ok {
			res = append(res, i)
		}
	}
	return res
}

// ToAny converts the tree into plain Go values (map[string]any,
// []any, scalars). Object key order is lost; use this only where
// order does not matter, such as expression environments.
func (n *Node) ToAny() any {
	switch n.Type {
	case NullType:
		return nil
	case BoolType:
		return n.Bool
	case IntType:
		return n.Int
	case FloatType:
		return n.Float
	case StringType:
		return n.String
	case ArrayType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = v.ToAny()
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(n.Fields))
		for i, f := range n.Fields {
			res[f] = n.Values[i].ToAny()
		}
		return res
	default:
		return nil
	}
}

// FromAny converts plain Go values into a tree. Maps produce objects
// with sorted keys.
func FromAny(v any) (*Node, bool) {
	switch x := v.(type) {
	case nil:
		return Null(), true
	case bool:
		return FromBool(x), true
	case int:
		return FromInt(int64(x)), true
	case int64:
		return FromInt(x), true
	case uint32:
		return FromInt(int64(x)), true
	case float64:
		return FromFloat(x), true
	case string:
		return FromString(x), true
	case []any:
		res := NewArray()
		for _, e := range x {
			n, ok := FromAny(e)
			if !ok {
				return nil, false
			}
			res.Append(n)
		}
		return res, true
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, e := range x {
			n, ok := FromAny(e)
			if !ok {
				return nil, false
			}
			m[k] = n
		}
		return FromMap(m), true
	default:
		return nil, false
	}
}

// ScalarEqual reports whether n is a scalar equal to v, comparing
// integers and floats across their Go representations.
func (n *Node) ScalarEqual(v any) bool {
	switch n.Type {
	case BoolType:
		b, ok := v.(bool)
		return ok && b == n.Bool
	case StringType:
		s, ok := v.(string)
		return ok && s == n.String
	case IntType:
		switch x := v.(type) {
		case int:
			return int64(x) == n.Int
		case int64:
			return x == n.Int
		case uint32:
			return int64(x) == n.Int
		case float64:
			return x == float64(n.Int)
		}
	case FloatType:
		switch x := v.(type) {
		case int:
			return float64(x) == n.Float
		case int64:
			return float64(x) == n.Float
		case float64:
			return x == n.Float
		}
	case NullType:
		return v == nil
	}
	return false
}

func (n *Node) numLiteral() string {
	if n.Num != "" {
		return n.Num
	}
	if n.Type == IntType {
		return strconv.FormatInt(n.Int, 10)
	}
	s := strconv.FormatFloat(n.Float, 'g', -1, 64)
	if !hasFloatSyntax(s) {
		s += ".0"
	}
	return s
}

func hasFloatSyntax(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E':
			return true
		}
	}
	return false
}
