package bnk

import (
	"fmt"
	"slices"

	"github.com/bnkworks/go-bnk/debug"
	"github.com/bnkworks/go-bnk/schema"
)

// Bounds is the feasible position range for inserting a batch:
// Min <= position <= Max.
type Bounds struct {
	Min, Max int
}

// InsertionBounds computes where a batch of new nodes may be placed.
// The batch must sit after every already-present node listed as a
// child by any batch node, and before every already-present parent a
// batch node references. Fails with ErrOrderingInfeasible when the
// range is empty.
func (b *Bank) InsertionBounds(batch []*Node) (Bounds, error) {
	bounds := Bounds{Min: 0, Max: len(b.Nodes)}
	for _, n := range batch {
		for _, c := range n.Children() {
			if i, ok := b.IndexOf(c); ok && i+1 > bounds.Min {
				bounds.Min = i + 1
			}
		}
		if p := n.ParentID(); p != 0 {
			if i, ok := b.IndexOf(p); ok && i < bounds.Max {
				bounds.Max = i
			}
		}
	}
	if bounds.Min > bounds.Max {
		return Bounds{}, fmt.Errorf(
			"%w: children force position >= %d but parents force <= %d",
			ErrOrderingInfeasible, bounds.Min, bounds.Max)
	}
	return bounds, nil
}

// Insert places a batch of new nodes contiguously at the lowest
// feasible position, preserving the batch's relative order, and
// rebuilds the index. Validation failures abort the whole insertion
// without mutating Nodes.
func (b *Bank) Insert(batch []*Node) error {
	if err := b.validateBatch(batch, true); err != nil {
		return err
	}
	bounds, err := b.InsertionBounds(batch)
	if err != nil {
		return err
	}
	if debug.Insert() {
		debug.Logf("bnk: inserting %d nodes at %d (bounds %d..%d)\n",
			len(batch), bounds.Min, bounds.Min, bounds.Max)
	}
	b.Nodes = slices.Insert(b.Nodes, bounds.Min, batch...)
	b.RebuildIndex()
	return nil
}

// InsertEvent places an event and its actions. Events carry no
// structural parent or children; by convention they cluster near the
// end of the sequence, so the batch goes immediately before the first
// existing Event-typed node, actions directly before their event.
func (b *Bank) InsertEvent(event *Node, actions []*Node) error {
	batch := append(slices.Clone(actions), event)
	if err := b.validateBatch(batch, false); err != nil {
		return err
	}
	pos := len(b.Nodes)
	for i, n := range b.Nodes {
		if n.Type == "Event" {
			pos = i
			break
		}
	}
	if debug.Insert() {
		debug.Logf("bnk: inserting event %s with %d actions at %d\n",
			event.ID.String(), len(actions), pos)
	}
	b.Nodes = slices.Insert(b.Nodes, pos, batch...)
	b.RebuildIndex()
	return nil
}

// validateBatch checks identities before any mutation. With
// needParent set, hierarchical nodes (those carrying node_base_params)
// must have a readable parent attribute.
func (b *Bank) validateBatch(batch []*Node, needParent bool) error {
	seen := make(map[uint32]bool, len(batch))
	for _, n := range batch {
		h := n.ID.Hash()
		if h == 0 {
			return fmt.Errorf("%w: %s", ErrInvalidIdentity, n)
		}
		if b.Contains(h) || seen[h] {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentity, n)
		}
		seen[h] = true
		if !needParent {
			continue
		}
		if _, ok := n.Body.Field("node_base_params"); !ok {
			// Non-hierarchical kind (e.g. a Bus); nothing to check.
			continue
		}
		if _, err := n.Body.Get(schema.ParentPath); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMissingParent, n, err)
		}
	}
	return nil
}
