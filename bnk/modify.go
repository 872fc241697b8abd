package bnk

import (
	"strings"

	"github.com/bnkworks/go-bnk/ir"
	"github.com/bnkworks/go-bnk/schema"
)

// Attribute paths for the initial-property lists most hierarchical
// kinds carry.
const (
	propValuesPath = "node_base_params/node_initial_params/prop_initial_values/values"
	propRangesPath = "node_base_params/node_initial_params/prop_range_modifiers/values"
)

// AddChildren appends children to a container's structural child
// list, keeps the list sorted, and points each child's parent field
// at the container. Children already listed are left alone.
func AddChildren(parent *Node, children ...*Node) error {
	items, err := parent.Body.Get(schema.ChildrenPath)
	if err != nil {
		return err
	}
	listed := map[int64]bool{}
	for _, v := range items.Ints() {
		listed[v] = true
	}
	for _, child := range children {
		h := int64(child.ID.Hash())
		if !listed[h] {
			listed[h] = true
			items.Append(ir.FromInt(h))
		}
		if err := child.SetParentID(parent.ID.Hash()); err != nil {
			return err
		}
	}
	sortNumbers(items)
	return nil
}

func sortNumbers(items *ir.Node) {
	vals := sortedChildren(items.Ints())
	items.Values = items.Values[:0]
	for _, v := range vals {
		items.Append(ir.FromInt(v))
	}
}

// SetProperty updates the named initial property, adding it when
// absent.
func SetProperty(n *Node, prop string, value float64) error {
	values, err := n.Body.Get(propValuesPath)
	if err != nil {
		return err
	}
	for _, entry := range values.Values {
		if pt, ok := entry.Field("prop_type"); ok && pt.Type == ir.StringType && pt.String == prop {
			entry.SetField("value", ir.FromFloat(value))
			return nil
		}
	}
	entry := ir.NewObject()
	entry.SetField("prop_type", ir.FromString(prop))
	entry.SetField("value", ir.FromFloat(value))
	values.Append(entry)
	return nil
}

// SetRangeProperty updates the named property range modifier, adding
// it when absent.
func SetRangeProperty(n *Node, prop string, min, max float64) error {
	values, err := n.Body.Get(propRangesPath)
	if err != nil {
		return err
	}
	for _, entry := range values.Values {
		if pt, ok := entry.Field("prop_type"); ok && pt.Type == ir.StringType && pt.String == prop {
			entry.SetField("min", ir.FromFloat(min))
			entry.SetField("max", ir.FromFloat(max))
			return nil
		}
	}
	entry := ir.NewObject()
	entry.SetField("prop_type", ir.FromString(prop))
	entry.SetField("min", ir.FromFloat(min))
	entry.SetField("max", ir.FromFloat(max))
	values.Append(entry)
	return nil
}

// RemoveProperty drops the named initial property. It reports whether
// anything was removed.
func RemoveProperty(n *Node, prop string) (bool, error) {
	values, err := n.Body.Get(propValuesPath)
	if err != nil {
		return false, err
	}
	for i, entry := range values.Values {
		if pt, ok := entry.Field("prop_type"); ok && pt.Type == ir.StringType && pt.String == prop {
			values.Values = append(values.Values[:i], values.Values[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// SetVolume clears any volume-flavored properties and sets the given
// one.
func SetVolume(n *Node, volume float64, volumeType string) error {
	values, err := n.Body.Get(propValuesPath)
	if err != nil {
		return err
	}
	kept := values.Values[:0]
	for _, entry := range values.Values {
		pt, ok := entry.Field("prop_type")
		if ok && pt.Type == ir.StringType && strings.Contains(strings.ToLower(pt.String), "volume") {
			continue
		}
		kept = append(kept, entry)
	}
	values.Values = kept
	return SetProperty(n, volumeType, volume)
}
