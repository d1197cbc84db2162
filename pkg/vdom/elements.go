package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, Component, string, EventHandler.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: make(Props),
	}
	for _, arg := range args {
		node.add(arg)
	}
	return node
}

func (v *VNode) add(arg any) {
	switch a := arg.(type) {
	case nil:
		// Ignore nil (allows conditional attributes)
	case Attr:
		v.setAttr(a)
	case []Attr:
		for _, attr := range a {
			v.setAttr(attr)
		}
	case *VNode:
		if a != nil {
			v.Children = append(v.Children, a)
		}
	case []*VNode:
		for _, child := range a {
			if child != nil {
				v.Children = append(v.Children, child)
			}
		}
	case Component:
		v.Children = append(v.Children, &VNode{Kind: KindComponent, Comp: a})
	case string:
		v.Children = append(v.Children, Text(a))
	case EventHandler:
		if v.Props == nil {
			v.Props = make(Props)
		}
		v.Props["on"+a.Event] = a
	}
}

func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	switch a.Key {
	case "key":
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	case "id":
		if s, ok := a.Value.(string); ok {
			v.ID = s
		}
		return
	}
	if v.Props == nil {
		v.Props = make(Props)
	}
	v.Props[a.Key] = a.Value
}

// Flow content

func H1(args ...any) *VNode   { return createElement("h1", args) }
func Div(args ...any) *VNode  { return createElement("div", args) }
func P(args ...any) *VNode    { return createElement("p", args) }
func Span(args ...any) *VNode { return createElement("span", args) }
func Pre(args ...any) *VNode  { return createElement("pre", args) }
func A(args ...any) *VNode    { return createElement("a", args) }
func Ul(args ...any) *VNode   { return createElement("ul", args) }
func Li(args ...any) *VNode   { return createElement("li", args) }

// Controls

func Button(args ...any) *VNode { return createElement("button", args) }
func Input(args ...any) *VNode  { return createElement("input", args) }

// Containers whose content some engines cannot replace from markup; see
// capability.BulkReplace.

func Table(args ...any) *VNode    { return createElement("table", args) }
func Tbody(args ...any) *VNode    { return createElement("tbody", args) }
func Tr(args ...any) *VNode       { return createElement("tr", args) }
func Td(args ...any) *VNode       { return createElement("td", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Optgroup(args ...any) *VNode { return createElement("optgroup", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
