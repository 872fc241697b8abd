// Package schema carries the small amount of per-kind knowledge the
// core keeps about soundbank object types: well-known attribute
// paths, the reference-field table for a few kinds, and event naming
// conventions. The core treats type tags opaquely everywhere else.
package schema

import "fmt"

// Well-known attribute paths shared by most hierarchical kinds.
const (
	ParentPath    = "node_base_params/direct_parent_id"
	ChildrenPath  = "children/items"
	SourceIDPath  = "bank_source_data/media_information/source_id"
	MediaSizePath = "bank_source_data/media_information/in_memory_media_size"
	ActionsPath   = "actions"
)

// Reserved field names excluded from heuristic reference discovery;
// dedicated structural logic handles these.
var ReservedFields = map[string]bool{
	"source_id":        true,
	"direct_parent_id": true,
	"children":         true,
}

// Registry maps a type tag to the attribute paths known to hold
// identity references for that kind. It is consulted before the
// heuristic scan; kinds without an entry fall back to the heuristic
// alone.
type Registry struct {
	refs map[string][]string
}

// NewRegistry returns a registry preloaded with the well-known kinds.
func NewRegistry() *Registry {
	r := &Registry{refs: map[string][]string{}}
	r.Register("Event", "actions/*")
	r.Register("Action", "**/external_id")
	r.Register("Sound", "node_base_params/override_bus_id")
	r.Register("RandomSequenceContainer",
		"node_base_params/override_bus_id",
		"playlist/items/*/play_id",
	)
	r.Register("ActorMixer", "node_base_params/override_bus_id")
	r.Register("Bus", "override_bus_id")
	return r
}

// Register replaces the reference paths recorded for a type tag.
func (r *Registry) Register(typeTag string, paths ...string) {
	r.refs[typeTag] = paths
}

// RefPaths returns the reference paths for a type tag, if known.
func (r *Registry) RefPaths(typeTag string) ([]string, bool) {
	ps, ok := r.refs[typeTag]
	return ps, ok
}

// Event name conventions. Playable units hang off Play_<name> /
// Stop_<name> event pairs.

func PlayName(name string) string {
	return "Play_" + name
}

func StopName(name string) string {
	return "Stop_" + name
}

// EventName composes the conventional event name for a sound type
// character and numeric id, e.g. EventName("Play", 'c', 512006630)
// -> "Play_c0512006630".
func EventName(eventType string, soundType byte, id int64) (string, error) {
	if eventType == "" {
		return "", fmt.Errorf("schema: no event type given")
	}
	if id <= 0 || id >= 1_000_000_000 {
		return "", fmt.Errorf("schema: event id %d outside expected range", id)
	}
	return fmt.Sprintf("%s_%c%010d", eventType, soundType, id), nil
}
