// Package transfer copies playable structures between soundbanks:
// the events naming a unit, the hierarchy beneath their targets, the
// ancestor chain above, heuristically referenced extras, and the
// binary payloads.
package transfer

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/bnkworks/go-bnk/bnk"
	"github.com/bnkworks/go-bnk/create"
	"github.com/bnkworks/go-bnk/debug"
	"github.com/bnkworks/go-bnk/fnv"
	"github.com/bnkworks/go-bnk/ir"
	"github.com/bnkworks/go-bnk/schema"
	"github.com/bnkworks/go-bnk/wem"
)

// Attribute path resolving the owning-bank field(s) of an action.
const bankRefPath = "params/**/bank_id"

// Engine copies structures from Src into Dst. A transfer is not
// transactional: a failure partway through can leave Dst partially
// modified, so callers wanting atomicity should work on a duplicate.
type Engine struct {
	Src, Dst *bnk.Bank

	// Out receives progress output; nil means stdout. Quiet
	// suppresses progress but not warnings.
	Out   io.Writer
	Quiet bool

	// Table recovers human-readable names for progress output; nil
	// means the built-in table.
	Table *fnv.Table
}

func (e *Engine) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e *Engine) table() *fnv.Table {
	if e.Table == nil {
		return fnv.BuiltinTable()
	}
	return e.Table
}

func (e *Engine) progressf(format string, args ...any) {
	if !e.Quiet {
		fmt.Fprintf(e.out(), format, args...)
	}
}

func (e *Engine) warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(e.out(), format, args...)
}

// CopyStructure copies every unit in units, a map of source unit name
// to destination unit name. Each name identifies a Play_<name> /
// Stop_<name> event pair. After all units are copied the destination
// is verified (findings are warnings, never fatal) and the payloads
// of the copied Sounds are imported from the source directory.
func (e *Engine) CopyStructure(units map[string]string) error {
	names := make([]string, 0, len(units))
	for n := range units {
		names = append(names, n)
	}
	sort.Strings(names)

	var payloads []uint32
	for _, src := range names {
		if err := e.copyUnit(src, units[src], &payloads); err != nil {
			return err
		}
	}
	e.progressf("all hierarchies transferred\n")
	e.verifyWarn()
	return e.importPayloads(payloads)
}

func (e *Engine) copyUnit(srcName, dstName string, payloads *[]uint32) error {
	targets, err := e.copyEvent(schema.PlayName(srcName), schema.PlayName(dstName))
	if err != nil {
		return err
	}
	stopTargets, err := e.copyEvent(schema.StopName(srcName), schema.StopName(dstName))
	if err != nil {
		return err
	}
	for _, target := range append(targets, stopTargets...) {
		if err := e.copySubtree(target, payloads); err != nil {
			return err
		}
	}
	return nil
}

// copyEvent deep-copies one event and its actions under a new name
// and returns the action targets that live in the destination
// container after the owning-bank rewrite.
func (e *Engine) copyEvent(srcName, dstName string) ([]uint32, error) {
	ev := e.Src.GetName(srcName)
	if ev == nil {
		return nil, fmt.Errorf("%w: %s in bank %d", bnk.ErrEventNotFound, srcName, e.Src.ContainerID)
	}
	evCopy := ev.Clone()
	evCopy.ID = bnk.NameID(dstName)

	var targets []uint32
	var actionCopies []*bnk.Node
	for _, actionID := range actionIDs(ev) {
		action := e.Src.Get(actionID)
		if action == nil {
			return nil, fmt.Errorf("%w: action %d of %s", bnk.ErrNodeNotFound, actionID, srcName)
		}
		cp := action.Clone()
		local, err := e.rewriteBankRefs(cp)
		if err != nil {
			return nil, err
		}
		actionCopies = append(actionCopies, cp)
		if !local {
			continue
		}
		if target, err := cp.GetInt("initial_values/external_id"); err == nil && target > 0 {
			targets = append(targets, uint32(target))
		}
	}
	e.progressf("copying %s as %s (%d actions)\n", srcName, dstName, len(actionCopies))
	return targets, e.Dst.InsertEvent(evCopy, actionCopies)
}

// rewriteBankRefs repoints owning-bank fields equal to the source
// container at the destination container. A reference to a third
// bank is left alone: the node it names does not move. Reports
// whether the action targets the destination container after the
// rewrite (an action without a bank field is local by convention).
func (e *Engine) rewriteBankRefs(action *bnk.Node) (bool, error) {
	ms, err := action.Resolve(bankRefPath)
	if err != nil {
		return true, nil
	}
	local := len(ms) == 0
	for _, m := range ms {
		ref, ok := m.Node.AsUint32()
		if !ok {
			continue
		}
		if ref == e.Src.ContainerID {
			ref = e.Dst.ContainerID
			if err := action.Set(m.Path, ir.FromInt(int64(ref))); err != nil {
				return false, err
			}
		}
		if ref == e.Dst.ContainerID {
			local = true
		}
	}
	return local, nil
}

// copySubtree copies the hierarchy beneath target, reattaches it
// along the ancestor chain, and copies heuristically referenced
// extras. Already-present targets are skipped.
func (e *Engine) copySubtree(target uint32, payloads *[]uint32) error {
	if e.Dst.Contains(target) {
		if debug.Transfer() {
			debug.Logf("transfer: target %d already in bank %d\n", target, e.Dst.ContainerID)
		}
		return nil
	}
	g, err := e.Src.Subtree(target)
	if err != nil {
		return err
	}
	if !e.Quiet {
		e.printHierarchy(g)
	}
	*payloads = append(*payloads, g.Payloads()...)

	// A node must precede its parent, so the batch goes in reverse
	// visit order (descendants first).
	ids := g.IDs()
	batch := make([]*bnk.Node, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		batch = append(batch, e.Src.Get(ids[i]).Clone())
	}
	if err := e.Dst.Insert(batch); err != nil {
		return err
	}

	if err := e.attachAncestors(target); err != nil {
		return err
	}
	return e.copyExtras(ids)
}

// attachAncestors walks the source ancestor chain of target upward.
// The first ancestor already present in the destination adopts the
// walked child and ends the walk; missing ancestors are copied with
// their child list reduced to the one child actually transferred.
func (e *Engine) attachAncestors(target uint32) error {
	chain, err := e.Src.Ancestors(target)
	if err != nil {
		return err
	}
	child := e.Dst.Get(target)
	for _, up := range chain {
		if existing := e.Dst.Get(up); existing != nil {
			e.progressf("attaching %d under existing node %d\n", child.Hash(), up)
			return bnk.AddChildren(existing, child)
		}
		cp := e.Src.Get(up).Clone()
		if err := cp.SetChildren(nil); err != nil {
			return err
		}
		if err := bnk.AddChildren(cp, child); err != nil {
			return err
		}
		if err := e.Dst.Insert([]*bnk.Node{cp}); err != nil {
			return err
		}
		e.progressf("copied ancestor %d (%s)\n", up, cp.Type)
		child = cp
	}
	return nil
}

// copyExtras copies, verbatim, every identity the reference heuristic
// discovers from the copied nodes that exists in the source but not
// yet in the destination.
func (e *Engine) copyExtras(seeds []uint32) error {
	for _, id := range e.Src.Related(seeds) {
		src := e.Src.Get(id)
		if src == nil || e.Dst.Contains(id) {
			continue
		}
		if err := e.Dst.Insert([]*bnk.Node{src.Clone()}); err != nil {
			return err
		}
		e.progressf("copied extra %d (%s)\n", id, src.Type)
	}
	return nil
}

func (e *Engine) printHierarchy(g *bnk.Graph) {
	w := e.out()
	table := e.table()
	var walk func(id uint32, depth int)
	walk = func(id uint32, depth int) {
		n := g.Node(id)
		for range depth {
			fmt.Fprint(w, "  ")
		}
		if name := e.Src.Get(id).LookupName(table, ""); name != "" {
			fmt.Fprintf(w, "- %d %q (%s)\n", id, name, n.Type)
		} else {
			fmt.Fprintf(w, "- %d (%s)\n", id, n.Type)
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(g.Entry, 0)
}

// verifyWarn runs verification on the destination and surfaces every
// finding as a warning.
func (e *Engine) verifyWarn() {
	findings := e.Dst.Verify(bnk.VerifyOptions{})
	if len(findings) == 0 {
		e.progressf("verified bank %d: no findings\n", e.Dst.ContainerID)
		return
	}
	for _, f := range findings {
		e.warnf("warning: %s\n", f)
	}
}

// importPayloads resolves each payload in the source directory and
// imports the ones found. A missing payload is reported and skipped:
// it may be streamed or delivered by another mechanism.
func (e *Engine) importPayloads(payloads []uint32) error {
	var paths []string
	seen := map[uint32]bool{}
	for _, id := range payloads {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, ok := wem.Find(e.Src.Dir, id)
		if !ok {
			e.warnf("payload %d not found in source bank, possibly streamed\n", id)
			continue
		}
		paths = append(paths, p)
	}
	return wem.Import(e.Dst, paths)
}

// Collect gathers the identities making up the unit named by name in
// the source bank, without copying anything: the action targets'
// subtrees, their ancestor chains, and the referenced extras.
func (e *Engine) Collect(name string) ([]uint32, error) {
	ev := e.Src.GetName(schema.PlayName(name))
	if ev == nil {
		return nil, fmt.Errorf("%w: %s in bank %d", bnk.ErrEventNotFound, schema.PlayName(name), e.Src.ContainerID)
	}
	var ids []uint32
	seen := map[uint32]bool{}
	add := func(id uint32) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, actionID := range actionIDs(ev) {
		action := e.Src.Get(actionID)
		if action == nil {
			continue
		}
		target, err := action.GetInt("initial_values/external_id")
		if err != nil || target <= 0 || !e.Src.Contains(uint32(target)) {
			continue
		}
		g, err := e.Src.Subtree(uint32(target))
		if err != nil {
			return nil, err
		}
		for _, id := range g.IDs() {
			add(id)
		}
		chain, err := e.Src.Ancestors(uint32(target))
		if err != nil {
			return nil, err
		}
		for _, id := range chain {
			add(id)
		}
		for _, id := range e.Src.Related(g.IDs()) {
			add(id)
		}
	}
	return ids, nil
}

// CreateEvents copies the structure beneath entry from the source (a
// no-op when it is already present) and manufactures a brand-new
// Play/Stop event pair for it named after name, instead of copying
// existing events.
func (e *Engine) CreateEvents(entry uint32, name string) error {
	var payloads []uint32
	if err := e.copySubtree(entry, &payloads); err != nil {
		return err
	}
	playAction := create.PlayAction(e.Dst.NewID(), entry, e.Dst.ContainerID)
	play := create.Event(schema.PlayName(name), playAction.Hash())
	if err := e.Dst.InsertEvent(play, []*bnk.Node{playAction}); err != nil {
		return err
	}
	stopAction := create.StopAction(e.Dst.NewID(), entry, e.Dst.ContainerID)
	stop := create.Event(schema.StopName(name), stopAction.Hash())
	if err := e.Dst.InsertEvent(stop, []*bnk.Node{stopAction}); err != nil {
		return err
	}
	e.verifyWarn()
	return e.importPayloads(payloads)
}

// actionIDs lists the action identities an event references.
func actionIDs(ev *bnk.Node) []uint32 {
	var res []uint32
	list, err := ev.Get(schema.ActionsPath)
	if err != nil {
		return nil
	}
	for _, v := range list.Ints() {
		if v > 0 {
			res = append(res, uint32(v))
		}
	}
	return res
}
