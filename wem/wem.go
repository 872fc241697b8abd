// Package wem locates and imports the external binary payloads
// stored alongside a soundbank document. Payload files are named by
// numeric identity, optionally with a human-readable prefix
// (label_123456.wem).
package wem

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"lukechampine.com/blake3"

	"github.com/bnkworks/go-bnk/bnk"
	"github.com/bnkworks/go-bnk/debug"
	"github.com/bnkworks/go-bnk/ir"
	"github.com/bnkworks/go-bnk/schema"
)

// Ext is the payload file extension.
const Ext = ".wem"

// ParseID extracts the payload identity from a file name, honoring
// the optional prefix convention.
func ParseID(name string) (uint32, bool) {
	stem := strings.TrimSuffix(filepath.Base(name), Ext)
	if i := strings.LastIndex(stem, "_"); i >= 0 {
		stem = stem[i+1:]
	}
	v, err := strconv.ParseUint(stem, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// Find locates the payload file for id under dir: first the exact
// name, then any prefixed variant.
func Find(dir string, id uint32) (string, bool) {
	exact := filepath.Join(dir, fmt.Sprintf("%d%s", id, Ext))
	if _, err := os.Stat(exact); err == nil {
		return exact, true
	}
	matches, err := doublestar.FilepathGlob(
		filepath.Join(dir, fmt.Sprintf("*_%d%s", id, Ext)))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// Import copies payload files into the bank's directory under their
// bare identity name and patches the recorded payload size on every
// Sound referencing each payload. A payload already present with
// identical content is not rewritten. Files without the payload
// extension are skipped.
func Import(b *bnk.Bank, paths []string) error {
	for _, p := range paths {
		if !strings.HasSuffix(p, Ext) {
			continue
		}
		id, ok := ParseID(p)
		if !ok {
			return fmt.Errorf("import %s: cannot derive a payload identity", p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("import payload %d: %w", id, err)
		}

		target := filepath.Join(b.Dir, fmt.Sprintf("%d%s", id, Ext))
		if same, err := sameContent(target, data); err != nil {
			return err
		} else if same {
			if debug.Wem() {
				debug.Logf("wem: payload %d already present, identical content\n", id)
			}
		} else if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("import payload %d: %w", id, err)
		}

		sounds := b.Query(map[string]any{
			"type":              "Sound",
			schema.SourceIDPath: int64(id),
		})
		for _, n := range sounds {
			if err := n.Set(schema.MediaSizePath, ir.FromInt(int64(len(data)))); err != nil {
				return fmt.Errorf("patch payload size on %s: %w", n, err)
			}
		}
		if debug.Wem() {
			debug.Logf("wem: imported payload %d (%d bytes, %d sounds)\n",
				id, len(data), len(sounds))
		}
	}
	return nil
}

// sameContent reports whether path already holds data, compared by
// content digest.
func sameContent(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if len(existing) != len(data) {
		return false, nil
	}
	a := blake3.Sum256(existing)
	b := blake3.Sum256(data)
	return bytes.Equal(a[:], b[:]), nil
}
