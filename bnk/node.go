package bnk

import (
	"fmt"
	"slices"

	"github.com/bnkworks/go-bnk/fnv"
	"github.com/bnkworks/go-bnk/ir"
	"github.com/bnkworks/go-bnk/schema"
)

// Node is a single soundbank object: an identity, an immutable type
// tag, and a generic attribute tree. The type tag determines how the
// body is interpreted but is treated opaquely here.
type Node struct {
	ID   Identity
	Type string
	Body *ir.Node

	// rawID preserves an id section of unrecognized shape so the
	// document round-trips; such nodes stay out of the index.
	rawID *ir.Node
}

// NewNode constructs a node of the given kind around a body tree.
func NewNode(id Identity, typeTag string, body *ir.Node) *Node {
	return &Node{ID: id, Type: typeTag, Body: body}
}

func (n *Node) Hash() uint32 {
	return n.ID.Hash()
}

// Get returns the value at path within the node's body.
func (n *Node) Get(path string) (*ir.Node, error) {
	v, err := n.Body.Get(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n, err)
	}
	return v, nil
}

// GetInt returns the integer at path.
func (n *Node) GetInt(path string) (int64, error) {
	v, err := n.Get(path)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, fmt.Errorf("%s: %q is %s, not an integer", n, path, v.Type)
	}
	return i, nil
}

// Set writes value at path; intermediate segments must exist.
func (n *Node) Set(path string, v *ir.Node) error {
	if err := n.Body.Set(path, v); err != nil {
		return fmt.Errorf("%s: %w", n, err)
	}
	return nil
}

// SetCreate writes value at path, creating missing intermediate maps.
func (n *Node) SetCreate(path string, v *ir.Node) error {
	if err := n.Body.SetCreate(path, v); err != nil {
		return fmt.Errorf("%s: %w", n, err)
	}
	return nil
}

// Resolve expands a wildcard path over the node's body.
func (n *Node) Resolve(path string) ([]ir.Match, error) {
	ms, err := n.Body.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n, err)
	}
	return ms, nil
}

// ParentID returns the structural parent's identity hash, 0 when the
// node has none (root or a non-hierarchical kind).
func (n *Node) ParentID() uint32 {
	v, err := n.Body.Get(schema.ParentPath)
	if err != nil {
		return 0
	}
	p, _ := v.AsUint32()
	return p
}

// SetParentID rewrites the structural parent reference.
func (n *Node) SetParentID(parent uint32) error {
	return n.Set(schema.ParentPath, ir.FromInt(int64(parent)))
}

// Children returns the structurally listed child identities, nil when
// the node lists none.
func (n *Node) Children() []uint32 {
	v, err := n.Body.Get(schema.ChildrenPath)
	if err != nil {
		return nil
	}
	items := v.Ints()
	res := make([]uint32, 0, len(items))
	for _, it := range items {
		if it > 0 && it <= 0xFFFFFFFF {
			res = append(res, uint32(it))
		}
	}
	return res
}

// SetChildren replaces the structural child list.
func (n *Node) SetChildren(children []uint32) error {
	items := make([]int64, len(children))
	for i, c := range children {
		items[i] = int64(c)
	}
	return n.Set(schema.ChildrenPath, ir.FromInts(items))
}

// SourceID returns the external payload identity of a Sound node.
func (n *Node) SourceID() (uint32, bool) {
	v, err := n.Body.Get(schema.SourceIDPath)
	if err != nil {
		return 0, false
	}
	return v.AsUint32()
}

// LookupName returns the node's name: the stored one if present, else
// a reverse-table hit (cached on the identity), else def.
func (n *Node) LookupName(t *fnv.Table, def string) string {
	if name, ok := n.ID.Name(); ok {
		return name
	}
	if t != nil {
		if name, ok := t.Lookup(n.ID.Hash()); ok {
			n.ID.cacheName(name)
			return name
		}
	}
	return def
}

// Clone deep-copies the node.
func (n *Node) Clone() *Node {
	cp := &Node{ID: n.ID, Type: n.Type, Body: n.Body.Clone()}
	if n.rawID != nil {
		cp.rawID = n.rawID.Clone()
	}
	return cp
}

func (n *Node) String() string {
	return fmt.Sprintf("%s (%s)", n.Type, n.ID.String())
}

// nodeFromIR interprets one element of the HIRC objects list, shaped
// {"id": {"Hash": h} | {"String": name}, "body": {<type>: {...}}}.
func nodeFromIR(el *ir.Node) (*Node, error) {
	idSec, ok := el.Field("id")
	if !ok {
		return nil, fmt.Errorf("%w: object without id section", ErrBadDocument)
	}
	bodySec, ok := el.Field("body")
	if !ok || bodySec.Type != ir.ObjectType || len(bodySec.Fields) != 1 {
		return nil, fmt.Errorf("%w: object without single-type body", ErrBadDocument)
	}
	n := &Node{Type: bodySec.Fields[0], Body: bodySec.Values[0]}

	switch {
	case idSec.Type == ir.ObjectType && len(idSec.Fields) == 1 && idSec.Fields[0] == "Hash":
		if h, ok := idSec.Values[0].AsUint32(); ok {
			n.ID = HashID(h)
			return n, nil
		}
	case idSec.Type == ir.ObjectType && len(idSec.Fields) == 1 && idSec.Fields[0] == "String":
		if idSec.Values[0].Type == ir.StringType {
			n.ID = NameID(idSec.Values[0].String)
			return n, nil
		}
	case idSec.Type == ir.IntType:
		if h, ok := idSec.AsUint32(); ok {
			n.ID = HashID(h)
			return n, nil
		}
	}
	// Unrecognized shape: keep the node, keep the raw section, skip
	// indexing it.
	n.rawID = idSec
	return n, nil
}

// toIR serializes the node back into the HIRC objects element shape.
func (n *Node) toIR() *ir.Node {
	var idSec *ir.Node
	switch {
	case n.rawID != nil:
		idSec = n.rawID
	default:
		idSec = ir.NewObject()
		if name, ok := n.ID.Name(); ok {
			idSec.SetField("String", ir.FromString(name))
		} else {
			idSec.SetField("Hash", ir.FromInt(int64(n.ID.Hash())))
		}
	}
	bodySec := ir.NewObject()
	bodySec.SetField(n.Type, n.Body)

	el := ir.NewObject()
	el.SetField("id", idSec)
	el.SetField("body", bodySec)
	return el
}

// sortedChildren is a small helper for keeping child lists ordered.
func sortedChildren(items []int64) []int64 {
	slices.Sort(items)
	return items
}
