package bnk

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/bnkworks/go-bnk/ir"
)

func TestSubtreeClosure(t *testing.T) {
	b := testBank(t)
	g, err := b.Subtree(4000000)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{1111111, 1111112, 3000000, 4000000}
	got := g.IDs()
	if d := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b uint32) bool { return a < b })); d != "" {
		t.Errorf("subtree members (-want +got):\n%s", d)
	}
	if got[0] != 4000000 {
		t.Errorf("first visited = %d, want the entry", got[0])
	}
	for _, id := range got {
		if !g.Has(id) || g.Node(id) == nil {
			t.Errorf("graph lookup inconsistent for %d", id)
		}
	}
}

func TestSubtreePayloads(t *testing.T) {
	b := testBank(t)
	g, err := b.Subtree(3000000)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{5001, 5002}
	if d := cmp.Diff(want, g.Payloads(), cmpopts.SortSlices(func(a, b uint32) bool { return a < b })); d != "" {
		t.Errorf("payloads (-want +got):\n%s", d)
	}
}

func TestSubtreeDiamondVisitedOnce(t *testing.T) {
	b := New(testBankID)
	b.Nodes = []*Node{
		soundNode(t, 1000001, 2000001, 5001),
		containerNode(t, "RandomSequenceContainer", 2000001, 3000001, 1000001),
		containerNode(t, "RandomSequenceContainer", 2000002, 3000001, 1000001),
		containerNode(t, "ActorMixer", 3000001, 0, 2000001, 2000002),
	}
	b.RebuildIndex()
	g, err := b.Subtree(3000001)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 4 {
		t.Errorf("Len = %d, want 4", g.Len())
	}
	// The shared leaf keeps a single parent edge.
	edges := 0
	for _, id := range g.IDs() {
		for _, c := range g.Node(id).Children {
			if c == 1000001 {
				edges++
			}
		}
	}
	if edges != 1 {
		t.Errorf("shared leaf has %d parent edges, want 1", edges)
	}
}

func TestSubtreeSkipsAbsentChildren(t *testing.T) {
	b := New(testBankID)
	b.Nodes = []*Node{
		containerNode(t, "ActorMixer", 3000001, 0, 88888888),
	}
	b.RebuildIndex()
	g, err := b.Subtree(3000001)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 1 || g.Has(88888888) {
		t.Errorf("absent child not skipped: %v", g.IDs())
	}
}

func TestSubtreeUnknownEntry(t *testing.T) {
	b := testBank(t)
	if _, err := b.Subtree(99999999); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("err = %v, want ErrNodeNotFound", err)
	}
}

func TestAncestors(t *testing.T) {
	b := testBank(t)
	got, err := b.Ancestors(1111111)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{3000000, 4000000, 5000000}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("chain (-want +got):\n%s", d)
	}
}

func TestAncestorsStopAtExternalParent(t *testing.T) {
	b := New(testBankID)
	b.Nodes = []*Node{
		soundNode(t, 1000001, 2000001, 5001),
		containerNode(t, "ActorMixer", 2000001, 77777777, 1000001),
	}
	b.RebuildIndex()
	got, err := b.Ancestors(1000001)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]uint32{2000001}, got); d != "" {
		t.Errorf("chain (-want +got):\n%s", d)
	}
}

func TestAncestorsCycle(t *testing.T) {
	b := New(testBankID)
	b.Nodes = []*Node{
		containerNode(t, "ActorMixer", 2000001, 2000002),
		containerNode(t, "ActorMixer", 2000002, 2000001),
	}
	b.RebuildIndex()
	_, err := b.Ancestors(2000001)
	if !errors.Is(err, ErrParentCycle) {
		t.Fatalf("err = %v, want ErrParentCycle", err)
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatal("error is not a *CycleError")
	}
	if ce.Entry != 2000001 || ce.At != 2000002 {
		t.Errorf("cycle detected at %d from %d", ce.At, ce.Entry)
	}
}

func TestRelated(t *testing.T) {
	b := testBank(t)
	event := b.GetName("Play_test")
	got := b.Related([]uint32{event.Hash()})
	want := []uint32{7000000, 3000000}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("related (-want +got):\n%s", d)
	}
}

func TestRelatedExcludesSeedsAndStructuralFields(t *testing.T) {
	b := testBank(t)
	// The container references its children and parent only through
	// reserved fields, so nothing new is discovered from it.
	got := b.Related([]uint32{3000000})
	if len(got) != 0 {
		t.Errorf("structural fields leaked into related: %v", got)
	}
}

func TestRelatedTerminatesOnMutualReferences(t *testing.T) {
	b := New(testBankID)
	b.Nodes = []*Node{
		NewNode(HashID(6000001), "Bus", mustBody(t, `{"override_bus_id": 6000002}`)),
		NewNode(HashID(6000002), "Bus", mustBody(t, `{"override_bus_id": 6000001}`)),
	}
	b.RebuildIndex()
	got := b.Related([]uint32{6000001})
	if d := cmp.Diff([]uint32{6000002}, got); d != "" {
		t.Errorf("related (-want +got):\n%s", d)
	}
}

func TestRelatedCyclicAttributeTree(t *testing.T) {
	b := New(testBankID)
	n := NewNode(HashID(6000001), "Bus", mustBody(t, `{"override_bus_id": 0}`))
	loop := &ir.Node{Type: ir.ObjectType}
	loop.Fields = []string{"next", "ref"}
	loop.Values = []*ir.Node{loop, ir.FromInt(6000002)}
	n.Body.Fields = append(n.Body.Fields, "loop")
	n.Body.Values = append(n.Body.Values, loop)
	b.Nodes = []*Node{
		n,
		NewNode(HashID(6000002), "Bus", mustBody(t, `{"override_bus_id": 0}`)),
	}
	b.RebuildIndex()
	got := b.Related([]uint32{6000001})
	if d := cmp.Diff([]uint32{6000002}, got); d != "" {
		t.Errorf("related (-want +got):\n%s", d)
	}
}
