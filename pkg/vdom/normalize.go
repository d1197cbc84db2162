package vdom

// Normalize rewrites a tree into the shape the builder understands:
// components are rendered, fragments are flattened into their parent, and
// text that has element siblings is wrapped in a span. Afterwards every
// element holds either element children only or a single text or raw
// node. The tree is modified in place; the returned root differs from the
// argument only when the argument is not an element.
func Normalize(root *VNode) *VNode {
	if root == nil {
		return nil
	}
	switch root.Kind {
	case KindComponent:
		if root.Comp == nil {
			return nil
		}
		return Normalize(root.Comp.Render())
	case KindFragment:
		flat := flatten(root.Children, nil)
		if len(flat) == 1 {
			return Normalize(flat[0])
		}
		return Normalize(&VNode{Kind: KindElement, Tag: "div", Children: flat})
	case KindText, KindRaw:
		return wrapText(root)
	}

	flat := flatten(root.Children, nil)
	if IsVoidElement(root.Tag) {
		flat = nil
	}
	if len(flat) == 1 && isContent(flat[0]) {
		root.Children = flat
		return root
	}
	children := make([]*VNode, 0, len(flat))
	for _, c := range flat {
		if isContent(c) {
			children = append(children, wrapText(c))
			continue
		}
		if n := Normalize(c); n != nil {
			children = append(children, n)
		}
	}
	root.Children = children
	return root
}

func isContent(n *VNode) bool {
	return n.Kind == KindText || n.Kind == KindRaw
}

func wrapText(n *VNode) *VNode {
	return &VNode{Kind: KindElement, Tag: "span", Children: []*VNode{n}}
}

// flatten expands fragments and components and drops nil children.
func flatten(children []*VNode, out []*VNode) []*VNode {
	for _, c := range children {
		switch {
		case c == nil:
		case c.Kind == KindFragment:
			out = flatten(c.Children, out)
		case c.Kind == KindComponent:
			if c.Comp != nil {
				out = flatten([]*VNode{c.Comp.Render()}, out)
			}
		default:
			out = append(out, c)
		}
	}
	return out
}
