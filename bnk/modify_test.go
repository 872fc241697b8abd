package bnk

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddChildren(t *testing.T) {
	b := testBank(t)
	parent := b.Get(3000000)
	extra := soundNode(t, 1111110, 0, 5003)
	dup := b.Get(1111111)
	if err := AddChildren(parent, extra, dup); err != nil {
		t.Fatal(err)
	}
	want := []uint32{1111110, 1111111, 1111112}
	if d := cmp.Diff(want, parent.Children()); d != "" {
		t.Errorf("children (-want +got):\n%s", d)
	}
	if got := extra.ParentID(); got != 3000000 {
		t.Errorf("child parent = %d, want 3000000", got)
	}
}

func TestSetProperty(t *testing.T) {
	b := testBank(t)
	n := b.Get(3000000)
	if err := SetProperty(n, "Volume", -3); err != nil {
		t.Fatal(err)
	}
	if err := SetProperty(n, "Volume", -6); err != nil {
		t.Fatal(err)
	}
	if err := SetProperty(n, "Pitch", 100); err != nil {
		t.Fatal(err)
	}
	values, err := n.Body.Get(propValuesPath)
	if err != nil {
		t.Fatal(err)
	}
	if values.Len() != 2 {
		t.Fatalf("got %d properties, want 2", values.Len())
	}
	vol, _ := values.Values[0].Field("value")
	if vol.Float != -6 {
		t.Errorf("Volume = %v after overwrite, want -6", vol.Float)
	}
}

func TestSetRangeProperty(t *testing.T) {
	b := testBank(t)
	n := b.Get(3000000)
	if err := SetRangeProperty(n, "Pitch", -1200, 1200); err != nil {
		t.Fatal(err)
	}
	ranges, err := n.Body.Get(propRangesPath)
	if err != nil {
		t.Fatal(err)
	}
	if ranges.Len() != 1 {
		t.Fatalf("got %d modifiers, want 1", ranges.Len())
	}
	lo, _ := ranges.Values[0].Field("min")
	hi, _ := ranges.Values[0].Field("max")
	if lo.Float != -1200 || hi.Float != 1200 {
		t.Errorf("range = [%v, %v]", lo.Float, hi.Float)
	}
}

func TestRemoveProperty(t *testing.T) {
	b := testBank(t)
	n := b.Get(3000000)
	if err := SetProperty(n, "Volume", -3); err != nil {
		t.Fatal(err)
	}
	removed, err := RemoveProperty(n, "Volume")
	if err != nil || !removed {
		t.Fatalf("removed = %v, err = %v", removed, err)
	}
	removed, err = RemoveProperty(n, "Volume")
	if err != nil || removed {
		t.Fatalf("second removal = %v, err = %v", removed, err)
	}
}

func TestSetVolumeClearsVolumeFlavors(t *testing.T) {
	b := testBank(t)
	n := b.Get(3000000)
	for _, p := range []string{"Volume", "OutputBusVolume", "Pitch"} {
		if err := SetProperty(n, p, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := SetVolume(n, -9, "BusVolume"); err != nil {
		t.Fatal(err)
	}
	values, err := n.Body.Get(propValuesPath)
	if err != nil {
		t.Fatal(err)
	}
	var props []string
	for _, entry := range values.Values {
		pt, _ := entry.Field("prop_type")
		props = append(props, pt.String)
	}
	if d := cmp.Diff([]string{"Pitch", "BusVolume"}, props); d != "" {
		t.Errorf("properties (-want +got):\n%s", d)
	}
}

func TestSetPropertyRequiresParamsBlock(t *testing.T) {
	n := busNode(t, 6000000)
	if err := SetProperty(n, "Volume", 0); err == nil {
		t.Error("expected an error for a node without initial params")
	}
}
