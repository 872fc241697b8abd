package bnk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/expr-lang/expr"

	"github.com/bnkworks/go-bnk/debug"
	"github.com/bnkworks/go-bnk/fnv"
	"github.com/bnkworks/go-bnk/ir"
	"github.com/bnkworks/go-bnk/schema"
)

// DocumentName is the document file inside a bank directory; sibling
// files in the same directory are the binary payloads.
const DocumentName = "soundbank.json"

// Bank is an ordered collection of nodes plus a derived identity
// index. Nodes order is semantically significant; see the package
// doc. The full parsed document is retained so that sections other
// than the object list round-trip untouched.
type Bank struct {
	ContainerID uint32
	Nodes       []*Node
	Dir         string

	// Schema supplies the per-kind reference tables consulted by
	// Related. Defaults to schema.NewRegistry.
	Schema *schema.Registry

	doc     *ir.Node
	hircSec *ir.Node
	index   map[uint32]int
	names   map[string]int
}

// New creates an empty bank with a minimal document around it.
func New(containerID uint32) *Bank {
	doc, err := ir.Parse([]byte(`{"sections":[` +
		`{"body":{"BKHD":{"bank_id":` + strconv.FormatUint(uint64(containerID), 10) + `}}},` +
		`{"body":{"HIRC":{"object_count":0,"objects":[]}}}]}`))
	if err != nil {
		panic(err)
	}
	b, err := fromDocument(doc)
	if err != nil {
		panic(err)
	}
	return b
}

// Load reads the bank document from dir.
func Load(dir string) (*Bank, error) {
	data, err := os.ReadFile(filepath.Join(dir, DocumentName))
	if err != nil {
		return nil, fmt.Errorf("bnk: load: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	b.Dir = dir
	if debug.Load() {
		debug.Logf("bnk: loaded %s: bank %d, %d objects\n", dir, b.ContainerID, len(b.Nodes))
	}
	return b, nil
}

// Parse builds a bank from document bytes.
func Parse(data []byte) (*Bank, error) {
	doc, err := ir.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDocument, err)
	}
	return fromDocument(doc)
}

func fromDocument(doc *ir.Node) (*Bank, error) {
	sections, ok := doc.Field("sections")
	if !ok || sections.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: no sections list", ErrBadDocument)
	}
	b := &Bank{doc: doc, Schema: schema.NewRegistry()}
	var objects *ir.Node
	for _, sec := range sections.Values {
		body, ok := sec.Field("body")
		if !ok {
			continue
		}
		if bkhd, ok := body.Field("BKHD"); ok {
			idVal, err := bkhd.Get("bank_id")
			if err != nil {
				return nil, fmt.Errorf("%w: BKHD without bank_id", ErrBadDocument)
			}
			cid, ok := idVal.AsUint32()
			if !ok {
				return nil, fmt.Errorf("%w: bank_id is not a uint32", ErrBadDocument)
			}
			b.ContainerID = cid
			continue
		}
		if hirc, ok := body.Field("HIRC"); ok {
			objs, ok := hirc.Field("objects")
			if !ok || objs.Type != ir.ArrayType {
				return nil, fmt.Errorf("%w: HIRC without objects list", ErrBadDocument)
			}
			b.hircSec = hirc
			objects = objs
		}
	}
	if b.hircSec == nil {
		return nil, fmt.Errorf("%w: no HIRC section", ErrBadDocument)
	}
	if b.ContainerID == 0 {
		return nil, fmt.Errorf("%w: no BKHD section", ErrBadDocument)
	}
	b.Nodes = make([]*Node, 0, objects.Len())
	for _, el := range objects.Values {
		n, err := nodeFromIR(el)
		if err != nil {
			return nil, err
		}
		b.Nodes = append(b.Nodes, n)
	}
	b.RebuildIndex()
	return b, nil
}

// RebuildIndex derives the identity index from Nodes. A named node is
// reachable both by its name and by the name's hash; a node whose id
// section could not be interpreted stays out of the index.
func (b *Bank) RebuildIndex() {
	b.index = make(map[uint32]int, len(b.Nodes))
	b.names = map[string]int{}
	for i, n := range b.Nodes {
		if n.rawID != nil {
			if debug.Index() {
				debug.Logf("bnk: node #%d has an unindexable id section\n", i)
			}
			continue
		}
		if name, ok := n.ID.Name(); ok {
			b.names[name] = i
			b.index[fnv.Hash(name)] = i
			continue
		}
		if h := n.ID.Hash(); h != 0 {
			b.index[h] = i
		}
	}
}

// IndexOf returns the position of the node with identity hash h.
func (b *Bank) IndexOf(h uint32) (int, bool) {
	i, ok := b.index[h]
	return i, ok
}

// Get returns the node with identity hash h, nil when absent.
func (b *Bank) Get(h uint32) *Node {
	if i, ok := b.index[h]; ok {
		return b.Nodes[i]
	}
	return nil
}

// GetName returns the node stored under name, resolving the name to
// its hash when no node is stored by the name itself.
func (b *Bank) GetName(name string) *Node {
	if i, ok := b.names[name]; ok {
		return b.Nodes[i]
	}
	return b.Get(fnv.Hash(name))
}

// Lookup resolves key as a decimal identity hash or a name.
func (b *Bank) Lookup(key string) *Node {
	if h, err := strconv.ParseUint(key, 10, 32); err == nil {
		if n := b.Get(uint32(h)); n != nil {
			return n
		}
	}
	return b.GetName(key)
}

// Contains reports whether identity hash h resolves in this bank.
func (b *Bank) Contains(h uint32) bool {
	_, ok := b.index[h]
	return ok
}

// NewID draws an unused identity hash.
func (b *Bank) NewID() uint32 {
	for {
		id := 10_000_000 + rand.Uint32N(90_000_000)
		if !b.Contains(id) {
			return id
		}
	}
}

// Query returns the nodes whose attributes equal every entry of q.
// The reserved key "type" matches the node's type tag; every other
// key is an attribute path.
func (b *Bank) Query(q map[string]any) []*Node {
	var res []*Node
nodes:
	for _, n := range b.Nodes {
		for key, want := range q {
			if key == "type" {
				if s, ok := want.(string); !ok || s != n.Type {
					continue nodes
				}
				continue
			}
			v, err := n.Body.Get(key)
			if err != nil || !v.ScalarEqual(want) {
				continue nodes
			}
		}
		res = append(res, n)
	}
	return res
}

// QueryExpr returns the nodes for which the expression evaluates to
// true. The expression sees id, name, type and the node body as plain
// values, e.g. `type == "Sound" && body.node_base_params.direct_parent_id == 123`.
func (b *Bank) QueryExpr(src string) ([]*Node, error) {
	env := map[string]any{
		"id":   int64(0),
		"name": "",
		"type": "",
		"body": map[string]any{},
	}
	// The env key "type" must shadow the builtin of the same name.
	program, err := expr.Compile(src, expr.Env(env), expr.DisableBuiltin("type"))
	if err != nil {
		return nil, fmt.Errorf("bnk: query %q: %w", src, err)
	}
	var res []*Node
	for _, n := range b.Nodes {
		name, _ := n.ID.Name()
		out, err := expr.Run(program, map[string]any{
			"id":   int64(n.ID.Hash()),
			"name": name,
			"type": n.Type,
			"body": n.Body.ToAny(),
		})
		if err != nil {
			return nil, fmt.Errorf("bnk: query %q on %s: %w", src, n, err)
		}
		if keep, ok := out.(bool); ok && keep {
			res = append(res, n)
		}
	}
	return res, nil
}

// SaveOptions controls Save.
type SaveOptions struct {
	// Backup copies the previous document to a .bak sibling first.
	Backup bool
}

// Save serializes Nodes back into the document and writes it to the
// bank directory.
func (b *Bank) Save(opts SaveOptions) error {
	if b.Dir == "" {
		return fmt.Errorf("bnk: save: bank has no directory")
	}
	data, err := b.Document()
	if err != nil {
		return err
	}
	path := filepath.Join(b.Dir, DocumentName)
	if opts.Backup {
		if prev, err := os.ReadFile(path); err == nil {
			if err := os.WriteFile(path+".bak", prev, 0644); err != nil {
				return fmt.Errorf("bnk: save backup: %w", err)
			}
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("bnk: save: %w", err)
	}
	return nil
}

// Document returns the formatted document with the current Nodes
// spliced into the HIRC objects position.
func (b *Bank) Document() ([]byte, error) {
	objs := ir.NewArray()
	for _, n := range b.Nodes {
		objs.Append(n.toIR())
	}
	b.hircSec.SetField("objects", objs)
	if _, ok := b.hircSec.Field("object_count"); ok {
		b.hircSec.SetField("object_count", ir.FromInt(int64(len(b.Nodes))))
	}
	compact, err := b.doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("bnk: document: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("bnk: document: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
