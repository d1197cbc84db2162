package vdom

import "fmt"

// Text returns a text node. Its content is escaped when rendered.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Raw returns a node whose markup is emitted as is. Never pass it
// untrusted input.
func Raw(markup string) *VNode {
	return &VNode{Kind: KindRaw, Text: markup}
}

// Fragment holds children that are spliced into the parent on Normalize.
// Arguments that cannot be children are ignored.
func Fragment(children ...any) *VNode {
	f := &VNode{Kind: KindFragment}
	for _, c := range children {
		switch c.(type) {
		case nil, string, *VNode, []*VNode, Component:
			f.add(c)
		}
	}
	return f
}

// Key sets the key used to match siblings across renders.
func Key(key any) Attr {
	return attr("key", fmt.Sprint(key))
}
