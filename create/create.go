// Package create manufactures nodes from embedded attribute
// templates and assembles them into playable structures.
package create

import (
	"embed"
	"fmt"

	"github.com/bnkworks/go-bnk/bnk"
	"github.com/bnkworks/go-bnk/ir"
	"github.com/bnkworks/go-bnk/schema"
)

//go:embed templates/*.json
var templates embed.FS

// SoundMode selects how a Sound's payload is delivered at runtime.
type SoundMode int

const (
	RegularSound SoundMode = iota
	StreamingSound
	PrefetchSound
)

func (m SoundMode) sourceType() string {
	switch m {
	case StreamingSound:
		return "Streaming"
	case PrefetchSound:
		return "Prefetch"
	}
	return "BnkData"
}

// body parses a fresh copy of an embedded template. Templates ship
// with the binary, so a failure here is a build defect.
func body(name string) *ir.Node {
	data, err := templates.ReadFile("templates/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("create: missing template %s: %v", name, err))
	}
	n, err := ir.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("create: bad template %s: %v", name, err))
	}
	return n
}

// Sound builds a Sound node bound to an external payload. The
// recorded payload size may be zero initially; importing the payload
// patches it.
func Sound(id, sourceID uint32, size int64, mode SoundMode) *bnk.Node {
	tpl := body("Sound")
	n := bnk.NewNode(bnk.HashID(id), "Sound", tpl)
	n.Set("bank_source_data/source_type", ir.FromString(mode.sourceType()))
	n.Set("bank_source_data/media_information/source_id", ir.FromInt(int64(sourceID)))
	n.Set(schema.MediaSizePath, ir.FromInt(size))
	return n
}

// RandomSequenceContainer builds a random container holding children,
// each entered into the playlist with the default weight.
func RandomSequenceContainer(id uint32, children ...*bnk.Node) *bnk.Node {
	const defaultWeight = 50000

	tpl := body("RandomSequenceContainer")
	n := bnk.NewNode(bnk.HashID(id), "RandomSequenceContainer", tpl)
	if len(children) > 0 {
		if err := bnk.AddChildren(n, children...); err != nil {
			panic(fmt.Sprintf("create: container template lacks a child list: %v", err))
		}
		playlist, _ := tpl.Get("playlist/items")
		for _, c := range children {
			entry := ir.NewObject()
			entry.SetField("play_id", ir.FromInt(int64(c.Hash())))
			entry.SetField("weight", ir.FromInt(defaultWeight))
			playlist.Append(entry)
		}
	}
	return n
}

// Event builds a named event referencing the given actions.
func Event(name string, actions ...uint32) *bnk.Node {
	tpl := body("Event")
	n := bnk.NewNode(bnk.NameID(name), "Event", tpl)
	list, _ := tpl.Field("actions")
	for _, a := range actions {
		list.Append(ir.FromInt(int64(a)))
	}
	return n
}

// PlayAction builds a Play action targeting a node inside the given
// container.
func PlayAction(id, target, bankID uint32) *bnk.Node {
	return action("Action_Play", "params/Play/bank_id", id, target, bankID)
}

// StopAction builds a Stop action targeting a node inside the given
// container.
func StopAction(id, target, bankID uint32) *bnk.Node {
	return action("Action_Stop", "params/Stop/bank_id", id, target, bankID)
}

func action(template, bankPath string, id, target, bankID uint32) *bnk.Node {
	tpl := body(template)
	n := bnk.NewNode(bnk.HashID(id), "Action", tpl)
	n.Set("initial_values/external_id", ir.FromInt(int64(target)))
	n.Set(bankPath, ir.FromInt(int64(bankID)))
	return n
}

// SimpleSound builds the full structure for one playable unit: a
// Sound per payload, a random container under the given mixer, and a
// Play/Stop event pair named after name. Payload sizes start at zero
// until the payloads are imported.
func SimpleSound(b *bnk.Bank, name string, mixer *bnk.Node, sourceIDs ...uint32) error {
	if len(sourceIDs) == 0 {
		return fmt.Errorf("simple sound %q: no payloads given", name)
	}
	sounds := make([]*bnk.Node, len(sourceIDs))
	for i, sid := range sourceIDs {
		sounds[i] = Sound(b.NewID(), sid, 0, RegularSound)
	}
	rsc := RandomSequenceContainer(b.NewID(), sounds...)
	if err := bnk.SetVolume(rsc, -3, "Volume"); err != nil {
		return err
	}
	if err := bnk.AddChildren(mixer, rsc); err != nil {
		return fmt.Errorf("simple sound %q: %w", name, err)
	}
	if err := b.Insert(append(sounds, rsc)); err != nil {
		return err
	}

	playAction := PlayAction(b.NewID(), rsc.Hash(), b.ContainerID)
	play := Event(schema.PlayName(name), playAction.Hash())
	if err := b.InsertEvent(play, []*bnk.Node{playAction}); err != nil {
		return err
	}

	stopAction := StopAction(b.NewID(), rsc.Hash(), b.ContainerID)
	stop := Event(schema.StopName(name), stopAction.Hash())
	return b.InsertEvent(stop, []*bnk.Node{stopAction})
}
