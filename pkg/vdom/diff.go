package vdom

import (
	"sort"

	"github.com/vango-dev/domsync/pkg/dom"
)

// Diff compares two normalized trees and returns the pending nodes that
// turn prev into next on the client; pass them to dom.Pass.Script.
//
// prev must carry the ids it was rendered with. Matched elements of next
// take over prev's ids and new elements get fresh ones from ids, so next
// can serve as prev for the following pass.
func Diff(p *dom.Pass, prev, next *VNode, ids *IDGenerator) []*dom.Node {
	if prev == nil || next == nil {
		return nil
	}
	d := &differ{pass: p, ids: ids, updates: make(map[string]*dom.Node)}
	d.element(prev, next)
	return d.pending
}

type differ struct {
	pass    *dom.Pass
	ids     *IDGenerator
	updates map[string]*dom.Node
	pending []*dom.Node
}

// update returns the Update node for an existing element, allocating it
// on first use so unchanged elements produce nothing.
func (d *differ) update(n *VNode) *dom.Node {
	if u, ok := d.updates[n.ID]; ok {
		return u
	}
	u := d.pass.ForUpdate(n.ID, n.Tag)
	d.updates[n.ID] = u
	d.pending = append(d.pending, u)
	return u
}

func (d *differ) lower(n *VNode) *dom.Node {
	AssignIDs(n, d.ids)
	return Lower(d.pass, n)
}

func (d *differ) element(prev, next *VNode) {
	if prev.Tag != next.Tag || (next.ID != "" && next.ID != prev.ID) {
		d.update(prev).ReplaceWith(d.lower(next), false)
		return
	}
	next.ID = prev.ID

	a, b := describe(prev), describe(next)

	for _, name := range unionKeys(a.attrs, b.attrs) {
		old, had := a.attrs[name]
		value, has := b.attrs[name]
		switch {
		case has && (!had || old != value):
			d.update(next).SetAttribute(name, value)
		case had && !has:
			d.update(next).RemoveAttribute(name)
		}
	}

	props := make([]dom.Property, 0, len(a.props)+len(b.props))
	for prop := range a.props {
		props = append(props, prop)
	}
	for prop := range b.props {
		if _, ok := a.props[prop]; !ok {
			props = append(props, prop)
		}
	}
	sort.Slice(props, func(i, j int) bool { return props[i].String() < props[j].String() })
	for _, prop := range props {
		old, had := a.props[prop]
		value, has := b.props[prop]
		switch {
		case has && (!had || old != value):
			d.update(next).SetProperty(prop, value)
		case had && !has:
			d.update(next).RemoveProperty(prop)
		}
	}

	for _, name := range unionKeys(a.events, b.events) {
		old, had := a.events[name]
		h, has := b.events[name]
		switch {
		case has && (!had || old != h):
			d.update(next).SetEvent(name, h.Code, h.Command, h.Command != "")
		case had && !has:
			d.update(next).SetEvent(name, "", "", false)
		}
	}

	switch {
	case b.timer != nil && (a.timer == nil || *a.timer != *b.timer):
		d.update(next).SetTimeout(b.timer.Interval, b.timer.Repeat)
	case a.timer != nil && b.timer == nil:
		d.update(next).ClearTimeout()
	}

	switch {
	case b.hasContent:
		if !a.hasContent || a.content != b.content || a.contentProp != b.contentProp {
			d.update(next).SetProperty(b.contentProp, b.content)
		}
	case a.hasContent:
		u := d.update(next)
		u.RemoveAllChildren()
		for _, c := range next.Children {
			u.AddChild(d.lower(c))
		}
	default:
		d.children(prev, next)
	}
}

func (d *differ) children(prev, next *VNode) {
	pc, nc := prev.Children, next.Children
	if len(pc) == 0 {
		if len(nc) == 0 {
			return
		}
		u := d.update(next)
		u.MarkEmpty()
		for _, c := range nc {
			u.AddChild(d.lower(c))
		}
		return
	}
	if hasKeys(pc) || hasKeys(nc) {
		d.keyedChildren(next, pc, nc)
	} else {
		d.unkeyedChildren(next, pc, nc)
	}
}

// unkeyedChildren matches children by position.
func (d *differ) unkeyedChildren(parent *VNode, prev, next []*VNode) {
	for i := 0; i < len(prev) || i < len(next); i++ {
		switch {
		case i >= len(prev):
			d.update(parent).AddChild(d.lower(next[i]))
		case i >= len(next):
			d.update(prev[i]).RemoveFromParent()
		default:
			d.element(prev[i], next[i])
		}
	}
}

// keyedChildren keeps keyed children that are still in increasing order,
// scanning greedily, and recreates the rest. Removals run before inserts on the
// client, so inserting in ascending position lands every new child at
// its final index.
func (d *differ) keyedChildren(parent *VNode, prev, next []*VNode) {
	prevKeyMap := make(map[string]int, len(prev))
	for i, child := range prev {
		if key := getKey(child); key != "" {
			prevKeyMap[key] = i
		}
	}

	kept := make(map[int]bool)
	moved := make(map[int]bool)
	var inserts []int
	last := -1
	for i, child := range next {
		key := getKey(child)
		j, found := prevKeyMap[key]
		if key != "" && found && j > last && !kept[j] && !moved[j] {
			kept[j] = true
			last = j
			d.element(prev[j], child)
			continue
		}
		if key != "" && found && !kept[j] && !moved[j] {
			// Recreated elsewhere; the old element is removed first so
			// its ids can be reused.
			moved[j] = true
			CopyIDs(prev[j], child)
		}
		inserts = append(inserts, i)
	}

	for j, child := range prev {
		if !kept[j] {
			d.update(child).RemoveFromParent()
		}
	}
	for _, i := range inserts {
		d.update(parent).InsertChildAt(d.lower(next[i]), i)
	}
}

// getKey extracts the reconciliation key.
func getKey(node *VNode) string {
	if node == nil {
		return ""
	}
	return node.Key
}

// hasKeys returns true if any child has a key.
func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if getKey(child) != "" {
			return true
		}
	}
	return false
}

func unionKeys[V any](a, b map[string]V) []string {
	keys := sortedKeys(a)
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
