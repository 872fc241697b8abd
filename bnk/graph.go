package bnk

import (
	"fmt"
	"slices"

	"github.com/bnkworks/go-bnk/debug"
	"github.com/bnkworks/go-bnk/ir"
	"github.com/bnkworks/go-bnk/schema"
)

// GraphNode is one entry of an ephemeral hierarchy graph.
type GraphNode struct {
	ID       uint32
	Index    int
	Type     string
	Body     *ir.Node
	Children []uint32
	// Payload is the external payload identity of a Sound node, 0
	// otherwise.
	Payload uint32
}

// Graph is the descendant graph built from one entry point. It is
// derived on demand for a single traversal and never persisted.
type Graph struct {
	Entry uint32

	nodes map[uint32]*GraphNode
	order []uint32
}

func (g *Graph) Len() int {
	return len(g.order)
}

func (g *Graph) Has(id uint32) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) Node(id uint32) *GraphNode {
	return g.nodes[id]
}

// IDs returns the node identities in visit order (parents first).
func (g *Graph) IDs() []uint32 {
	return slices.Clone(g.order)
}

// Payloads returns the distinct external payload identities of the
// Sound nodes in the graph, in visit order.
func (g *Graph) Payloads() []uint32 {
	var res []uint32
	seen := map[uint32]bool{}
	for _, id := range g.order {
		if p := g.nodes[id].Payload; p != 0 && !seen[p] {
			seen[p] = true
			res = append(res, p)
		}
	}
	return res
}

// Subtree builds the descendant graph from entry by depth-first
// traversal of each node's structural child list. A node reachable by
// several paths is visited once and keeps its first parent edge; a
// listed child absent from the bank is skipped.
func (b *Bank) Subtree(entry uint32) (*Graph, error) {
	if !b.Contains(entry) {
		return nil, fmt.Errorf("%w: subtree entry %d", ErrNodeNotFound, entry)
	}
	g := &Graph{Entry: entry, nodes: map[uint32]*GraphNode{}}

	type edge struct {
		id, parent uint32
	}
	todo := []edge{{entry, 0}}
	for len(todo) > 0 {
		e := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		if g.Has(e.id) {
			continue
		}
		idx, ok := b.IndexOf(e.id)
		if !ok {
			if debug.Graph() {
				debug.Logf("bnk: subtree of %d: child %d not in bank\n", entry, e.id)
			}
			continue
		}
		n := b.Nodes[idx]
		gn := &GraphNode{ID: e.id, Index: idx, Type: n.Type, Body: n.Body}
		if n.Type == "Sound" {
			if sid, ok := n.SourceID(); ok {
				gn.Payload = sid
			}
		}
		g.nodes[e.id] = gn
		g.order = append(g.order, e.id)
		if e.parent != 0 {
			p := g.nodes[e.parent]
			p.Children = append(p.Children, e.id)
		}
		for _, c := range n.Children() {
			todo = append(todo, edge{c, e.id})
		}
	}
	return g, nil
}

// Ancestors follows parent references upward from entry, returning
// the chain nearest-first. The walk stops at parent 0 or at an
// identity absent from the bank (the true parent living in another
// container is expected). A repeated identity fails with a
// CycleError carrying the chain walked so far.
func (b *Bank) Ancestors(entry uint32) ([]uint32, error) {
	n := b.Get(entry)
	if n == nil {
		return nil, fmt.Errorf("%w: ancestors entry %d", ErrNodeNotFound, entry)
	}
	var chain []uint32
	inChain := map[uint32]bool{}
	parent := n.ParentID()
	for parent != 0 && b.Contains(parent) {
		if inChain[parent] {
			return nil, &CycleError{Entry: entry, At: parent, Chain: chain}
		}
		chain = append(chain, parent)
		inChain[parent] = true
		parent = b.Get(parent).ParentID()
	}
	return chain, nil
}

// Related discovers identities referenced by the seed nodes beyond
// the structural fields: the per-kind reference table is consulted
// first, then every remaining integer attribute that happens to match
// a known identity is taken as a reference. This is a deliberate
// approximation; false positives are accepted. Newly found nodes are
// expanded the same way. The result excludes the seeds and holds
// discovery order (nearer referents first).
func (b *Bank) Related(seeds []uint32) []uint32 {
	seedSet := make(map[uint32]bool, len(seeds))
	for _, s := range seeds {
		seedSet[s] = true
	}
	var extras []uint32
	extraSet := map[uint32]bool{}

	for _, seed := range seeds {
		todo := []uint32{seed}
		for len(todo) > 0 {
			id := todo[len(todo)-1]
			todo = todo[:len(todo)-1]
			n := b.Get(id)
			if n == nil {
				continue
			}
			found := map[uint32]bool{}
			if paths, ok := b.Schema.RefPaths(n.Type); ok {
				for _, p := range paths {
					ms, err := n.Body.Resolve(p)
					if err != nil {
						continue
					}
					for _, m := range ms {
						if v, ok := m.Node.AsUint32(); ok && v != 0 && b.Contains(v) {
							found[v] = true
						}
					}
				}
			}
			scanRefs(n.Body, "body", b, found, map[*ir.Node]bool{})

			for _, v := range sortedKeys(found) {
				if seedSet[v] || extraSet[v] {
					continue
				}
				extraSet[v] = true
				extras = append(extras, v)
				todo = append(todo, v)
			}
		}
	}
	return extras
}

// scanRefs is the heuristic half of Related: collect every integer
// scalar matching a known identity, skipping the reserved structural
// fields. The visited set guards against cyclic attribute trees.
func scanRefs(item *ir.Node, field string, b *Bank, found map[uint32]bool, visited map[*ir.Node]bool) {
	if schema.ReservedFields[field] || visited[item] {
		return
	}
	visited[item] = true
	switch item.Type {
	case ir.ArrayType:
		for _, v := range item.Values {
			scanRefs(v, field, b, found, visited)
		}
	case ir.ObjectType:
		for i, key := range item.Fields {
			scanRefs(item.Values[i], key, b, found, visited)
		}
	case ir.IntType:
		if v, ok := item.AsUint32(); ok && v != 0 && b.Contains(v) {
			found[v] = true
		}
	}
}

func sortedKeys(m map[uint32]bool) []uint32 {
	res := make([]uint32, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
