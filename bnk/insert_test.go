package bnk

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func nodeHashes(b *Bank) []uint32 {
	res := make([]uint32, len(b.Nodes))
	for i, n := range b.Nodes {
		res[i] = n.ID.Hash()
	}
	return res
}

func TestInsertionBounds(t *testing.T) {
	b := testBank(t)
	tests := []struct {
		name  string
		batch []*Node
		want  Bounds
	}{
		{
			"parent only",
			[]*Node{soundNode(t, 2000000, 3000000, 5003)},
			Bounds{Min: 0, Max: 2},
		},
		{
			"children and parent",
			[]*Node{containerNode(t, "RandomSequenceContainer", 2000000, 4000000, 1111111, 1111112)},
			Bounds{Min: 2, Max: 3},
		},
		{
			"unconstrained",
			[]*Node{busNode(t, 2000000)},
			Bounds{Min: 0, Max: len(b.Nodes)},
		},
		{
			"absent parent ignored",
			[]*Node{soundNode(t, 2000000, 99999999, 5003)},
			Bounds{Min: 0, Max: len(b.Nodes)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.InsertionBounds(tt.batch)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("bounds mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestInsertPlacesBeforeParent(t *testing.T) {
	b := testBank(t)
	n := soundNode(t, 2000000, 3000000, 5003)
	if err := b.Insert([]*Node{n}); err != nil {
		t.Fatal(err)
	}
	ni, ok := b.IndexOf(2000000)
	if !ok {
		t.Fatal("inserted node not indexed")
	}
	pi, _ := b.IndexOf(3000000)
	if ni >= pi {
		t.Errorf("node at %d is not before its parent at %d", ni, pi)
	}
}

func TestInsertBatchContiguous(t *testing.T) {
	b := testBank(t)
	batch := []*Node{
		soundNode(t, 2000001, 3000000, 5003),
		soundNode(t, 2000002, 3000000, 5004),
		soundNode(t, 2000003, 3000000, 5005),
	}
	if err := b.Insert(batch); err != nil {
		t.Fatal(err)
	}
	first, _ := b.IndexOf(2000001)
	for i, want := range []uint32{2000001, 2000002, 2000003} {
		if got := b.Nodes[first+i].ID.Hash(); got != want {
			t.Errorf("position %d = %d, want %d", first+i, got, want)
		}
	}
}

func TestInsertInfeasibleLeavesBankUnchanged(t *testing.T) {
	b := testBank(t)
	before := nodeHashes(b)
	// Requires a slot after the mixer at index 3 yet before the
	// container at index 2.
	n := containerNode(t, "ActorMixer", 2000000, 3000000, 4000000)
	err := b.Insert([]*Node{n})
	if !errors.Is(err, ErrOrderingInfeasible) {
		t.Fatalf("err = %v, want ErrOrderingInfeasible", err)
	}
	if d := cmp.Diff(before, nodeHashes(b)); d != "" {
		t.Errorf("failed insert mutated the bank (-want +got):\n%s", d)
	}
}

func TestInsertValidation(t *testing.T) {
	noParent := NewNode(HashID(2000000), "Sound",
		mustBody(t, `{"node_base_params": {"node_initial_params": {}}}`))
	tests := []struct {
		name  string
		batch []*Node
		want  error
	}{
		{"zero identity", []*Node{NewNode(HashID(0), "Bus", mustBody(t, `{}`))}, ErrInvalidIdentity},
		{"present duplicate", []*Node{busNode(t, 6000000)}, ErrDuplicateIdentity},
		{"in-batch duplicate", []*Node{busNode(t, 2000000), busNode(t, 2000000)}, ErrDuplicateIdentity},
		{"missing parent attribute", []*Node{noParent}, ErrMissingParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBank(t)
			before := nodeHashes(b)
			if err := b.Insert(tt.batch); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if d := cmp.Diff(before, nodeHashes(b)); d != "" {
				t.Errorf("failed insert mutated the bank (-want +got):\n%s", d)
			}
		})
	}
}

func TestInsertEventBeforeExistingEvents(t *testing.T) {
	b := testBank(t)
	action := actionNode(t, 7100000, 3000000, testBankID)
	event := eventNode(t, "Play_more", 7100000)
	if err := b.InsertEvent(event, []*Node{action}); err != nil {
		t.Fatal(err)
	}
	ei, ok := b.IndexOf(event.Hash())
	if !ok {
		t.Fatal("event not indexed")
	}
	ai, _ := b.IndexOf(7100000)
	oi, _ := b.IndexOf(b.GetName("Play_test").Hash())
	if ai != ei-1 {
		t.Errorf("action at %d, event at %d; want action directly before", ai, ei)
	}
	if ei >= oi {
		t.Errorf("new event at %d not before existing event at %d", ei, oi)
	}
}

func TestInsertEventAppendsWhenNoEvents(t *testing.T) {
	b := New(testBankID)
	b.Nodes = []*Node{busNode(t, 6000000)}
	b.RebuildIndex()
	event := eventNode(t, "Play_solo")
	if err := b.InsertEvent(event, nil); err != nil {
		t.Fatal(err)
	}
	if got := b.Nodes[len(b.Nodes)-1]; got.Hash() != event.Hash() {
		t.Errorf("last node = %s, want the new event", got)
	}
}
