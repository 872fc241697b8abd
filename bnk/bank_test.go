package bnk

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnkworks/go-bnk/fnv"
	"github.com/bnkworks/go-bnk/ir"
)

const testBankID = 12345678

func mustBody(t *testing.T, src string) *ir.Node {
	t.Helper()
	n, err := ir.Parse([]byte(src))
	if err != nil {
		t.Fatalf("bad body fixture: %v", err)
	}
	return n
}

// soundNode builds a Sound with a parent and a payload reference.
func soundNode(t *testing.T, id, parent, source uint32) *Node {
	t.Helper()
	body := mustBody(t, fmt.Sprintf(`{
		"bank_source_data": {"media_information": {"source_id": %d, "in_memory_media_size": 1024}},
		"node_base_params": {"direct_parent_id": %d}
	}`, source, parent))
	return NewNode(HashID(id), "Sound", body)
}

// containerNode builds a container kind with children.
func containerNode(t *testing.T, typ string, id, parent uint32, children ...uint32) *Node {
	t.Helper()
	items := ""
	for i, c := range children {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf("%d", c)
	}
	body := mustBody(t, fmt.Sprintf(`{
		"node_base_params": {"direct_parent_id": %d, "node_initial_params": {
			"prop_initial_values": {"values": []},
			"prop_range_modifiers": {"values": []}
		}},
		"children": {"items": [%s]}
	}`, parent, items))
	return NewNode(HashID(id), typ, body)
}

func actionNode(t *testing.T, id, target, bankID uint32) *Node {
	t.Helper()
	body := mustBody(t, fmt.Sprintf(`{
		"action_type": "Play",
		"initial_values": {"external_id": %d},
		"params": {"Play": {"fade_curve": 4, "bank_id": %d}}
	}`, target, bankID))
	return NewNode(HashID(id), "Action", body)
}

func eventNode(t *testing.T, name string, actions ...uint32) *Node {
	t.Helper()
	items := ""
	for i, a := range actions {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf("%d", a)
	}
	body := mustBody(t, fmt.Sprintf(`{"actions": [%s]}`, items))
	return NewNode(NameID(name), "Event", body)
}

func busNode(t *testing.T, id uint32) *Node {
	t.Helper()
	body := mustBody(t, `{"bus_initial_params": {"volume": 0.0}, "override_bus_id": 0}`)
	return NewNode(HashID(id), "Bus", body)
}

// testBank assembles a consistent fixture: two Sounds under an RSC
// under two mixers, a Bus, and a Play event with one action.
func testBank(t *testing.T) *Bank {
	t.Helper()
	b := New(testBankID)
	b.Nodes = []*Node{
		soundNode(t, 1111111, 3000000, 5001),
		soundNode(t, 1111112, 3000000, 5002),
		containerNode(t, "RandomSequenceContainer", 3000000, 4000000, 1111111, 1111112),
		containerNode(t, "ActorMixer", 4000000, 5000000, 3000000),
		containerNode(t, "ActorMixer", 5000000, 0, 4000000),
		busNode(t, 6000000),
		actionNode(t, 7000000, 3000000, testBankID),
		eventNode(t, "Play_test", 7000000),
	}
	b.RebuildIndex()
	return b
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no sections", `{"other": 1}`},
		{"no HIRC", `{"sections":[{"body":{"BKHD":{"bank_id":1}}}]}`},
		{"no BKHD", `{"sections":[{"body":{"HIRC":{"objects":[]}}}]}`},
		{"HIRC without objects", `{"sections":[{"body":{"BKHD":{"bank_id":1}}},{"body":{"HIRC":{}}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); !errors.Is(err, ErrBadDocument) {
				t.Errorf("err = %v, want ErrBadDocument", err)
			}
		})
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := `{"sections":[{"body":{"BKHD":{"bank_id":42424242}}},{"body":{"HIRC":{"object_count":1,"objects":[{"id":{"Hash":7000000},"body":{"Bus":{"override_bus_id":0}}}]}}}]}`
	b, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if b.ContainerID != 42424242 {
		t.Errorf("ContainerID = %d", b.ContainerID)
	}
	if len(b.Nodes) != 1 || b.Nodes[0].Type != "Bus" {
		t.Fatalf("nodes = %v", b.Nodes)
	}
	out, err := b.Document()
	if err != nil {
		t.Fatal(err)
	}
	b2, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if b2.ContainerID != b.ContainerID || len(b2.Nodes) != len(b.Nodes) {
		t.Errorf("round trip changed the bank")
	}
}

func TestIndexNamedNodes(t *testing.T) {
	b := testBank(t)
	byName := b.GetName("Play_test")
	if byName == nil {
		t.Fatal("event not found by name")
	}
	byHash := b.Get(fnv.Hash("Play_test"))
	if byHash != byName {
		t.Error("name hash does not reach the same node")
	}
	if b.Lookup("3000000") == nil {
		t.Error("Lookup by decimal hash failed")
	}
	if b.Lookup("Play_test") == nil {
		t.Error("Lookup by name failed")
	}
}

func TestUnindexableIDKeptOutOfIndex(t *testing.T) {
	doc := `{"sections":[{"body":{"BKHD":{"bank_id":1000001}}},{"body":{"HIRC":{"objects":[` +
		`{"id":{"Weird":[1,2]},"body":{"Bus":{"override_bus_id":0}}},` +
		`{"id":{"Hash":2000000},"body":{"Bus":{"override_bus_id":0}}}]}}}]}`
	b, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Nodes) != 2 {
		t.Fatalf("nodes kept = %d, want 2", len(b.Nodes))
	}
	if len(b.index) != 1 {
		t.Errorf("index size = %d, want 1", len(b.index))
	}
	// The odd id section must survive a save.
	out, err := b.Document()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte(`"Weird"`)) {
		t.Errorf("raw id section lost from document")
	}
}

func TestLoadSaveBackup(t *testing.T) {
	dir := t.TempDir()
	b := testBank(t)
	b.Dir = dir
	if err := b.Save(SaveOptions{}); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ContainerID != testBankID || len(loaded.Nodes) != len(b.Nodes) {
		t.Fatalf("loaded bank differs: id %d, %d nodes", loaded.ContainerID, len(loaded.Nodes))
	}
	if err := loaded.Save(SaveOptions{Backup: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, DocumentName+".bak")); err != nil {
		t.Errorf("backup not written: %v", err)
	}
}

func TestQuery(t *testing.T) {
	b := testBank(t)
	sounds := b.Query(map[string]any{"type": "Sound"})
	if len(sounds) != 2 {
		t.Fatalf("got %d Sounds, want 2", len(sounds))
	}
	one := b.Query(map[string]any{
		"type": "Sound",
		"bank_source_data/media_information/source_id": int64(5002),
	})
	if len(one) != 1 || one[0].Hash() != 1111112 {
		t.Errorf("source_id query = %v", one)
	}
	none := b.Query(map[string]any{"type": "Sound", "absent/path": int64(1)})
	if len(none) != 0 {
		t.Errorf("query through missing path matched %d nodes", len(none))
	}
}

func TestQueryExpr(t *testing.T) {
	b := testBank(t)
	got, err := b.QueryExpr(`type == "Sound" && body.node_base_params.direct_parent_id == 3000000`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d nodes, want 2", len(got))
	}
	got, err = b.QueryExpr(`type == "Bus" && id == 6000000`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID.Hash() != 6000000 {
		t.Errorf("bus query matched %v", got)
	}
	if _, err := b.QueryExpr(`this is not an expression`); err == nil {
		t.Error("bad expression should fail compilation")
	}
}

func TestNewID(t *testing.T) {
	b := testBank(t)
	for range 100 {
		id := b.NewID()
		if id < 10_000_000 || id >= 100_000_000 {
			t.Fatalf("NewID out of range: %d", id)
		}
		if b.Contains(id) {
			t.Fatalf("NewID returned an existing identity: %d", id)
		}
	}
}
