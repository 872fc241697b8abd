package fnv

import (
	_ "embed"
	"strings"
)

//go:embed words.txt
var builtinWords string

// Table is an immutable reverse lookup from hash to the name that
// produced it. Construct one with NewTable or BuiltinTable and pass
// it to whatever needs name resolution; there is no ambient table.
type Table struct {
	names map[uint32]string
}

// NewTable builds a Table by hashing every candidate word. Blank
// words and words starting with '#' are skipped.
func NewTable(words []string) *Table {
	t := &Table{names: make(map[uint32]string, len(words))}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		t.names[Hash(w)] = w
	}
	return t
}

// BuiltinTable builds a Table from the bundled word list.
func BuiltinTable() *Table {
	return NewTable(strings.Split(builtinWords, "\n"))
}

// Lookup returns the known name for h, if any.
func (t *Table) Lookup(h uint32) (string, bool) {
	name, ok := t.names[h]
	return name, ok
}

// Len returns the number of known names.
func (t *Table) Len() int {
	return len(t.names)
}
