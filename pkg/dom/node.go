package dom

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vango-dev/domsync/pkg/escape"
)

// Mode says whether a node is being constructed or modified in place.
type Mode uint8

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// String returns the name of the mode.
func (m Mode) String() string {
	if m == ModeCreate {
		return "create"
	}
	return "update"
}

type handler struct {
	code    string
	command string
}

type insertion struct {
	pos   int // -1 appends
	child *Node
}

// Node accumulates the pending changes of one element and emits them as
// markup or script. Nodes are allocated from a Pass and are spent once
// emitted.
type Node struct {
	pass *Pass
	mode Mode
	id   string
	tag  string

	// variable is the script variable bound by declare.
	variable string

	attrs          map[string]string
	removedAttrs   []string
	props          map[Property]string
	boxConstraints bool
	events         map[string]handler
	rulesApplied   bool

	children    []insertion
	markup      *escape.Stream // batched child markup, unescaped
	markupTimer []Timer

	trailing  strings.Builder
	survivors strings.Builder
	methods   []string
	timer     *Timer

	timerCleared bool

	deleted         bool
	clearAll        bool
	wasEmpty        bool
	hideWithDisplay bool
	replacement     *Node
	sibling         *Node
	owned           bool

	mutations int
	spent     bool
}

// String describes the node for diagnostics.
func (n *Node) String() string {
	return fmt.Sprintf("%s<%s#%s>", n.mode, n.tag, n.id)
}

// Mode returns whether the node creates or updates an element.
func (n *Node) Mode() Mode { return n.mode }

// Type returns the element tag.
func (n *Node) Type() string { return n.tag }

// ID returns the identity, which may be empty for a Create node.
func (n *Node) ID() string { return n.id }

// MutationCount returns the number of mutating calls made on the node.
func (n *Node) MutationCount() int { return n.mutations }

// WasEmpty reports whether the element had no rendered children before
// this pass.
func (n *Node) WasEmpty() bool { return n.wasEmpty }

// Deleted reports whether RemoveFromParent was called.
func (n *Node) Deleted() bool { return n.deleted }

func (n *Node) mutate() {
	if n.spent {
		panic(errors.AssertionFailedf("dom: %s used after it was emitted", n))
	}
	n.mutations++
}

// MarkEmpty records that an Update node's element has no rendered
// children, which lets children added later be batched into one content
// replacement. It is a hint about the client, not a change, and does not
// count as a mutation.
func (n *Node) MarkEmpty() {
	n.wasEmpty = true
}

// SetID sets the identity of a Create node.
func (n *Node) SetID(id string) {
	n.mutate()
	if n.mode == ModeUpdate && id != n.id {
		panic(errors.AssertionFailedf("dom: cannot change identity of %s to %q", n, id))
	}
	n.id = id
}

// ensureID returns the identity, assigning one if the node has none.
func (n *Node) ensureID() string {
	if n.id == "" {
		n.id = n.pass.config.NewID()
	}
	return n.id
}

// SetAttribute sets an attribute. The "id" attribute of a Create node is
// its identity.
func (n *Node) SetAttribute(name, value string) {
	if name == "id" && n.mode == ModeCreate {
		n.SetID(value)
		return
	}
	n.mutate()
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// Attribute returns the value of an attribute.
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// RemoveAttribute removes an attribute. On an Update node the removal is
// emitted to the client.
func (n *Node) RemoveAttribute(name string) {
	n.mutate()
	delete(n.attrs, name)
	if n.mode == ModeUpdate {
		n.removedAttrs = append(n.removedAttrs, name)
	}
}

// SetProperty sets a property.
func (n *Node) SetProperty(p Property, value string) {
	n.mutate()
	if n.props == nil {
		n.props = make(map[Property]string)
	}
	n.props[p] = value
	if s, ok := p.(Style); ok && s.IsBoxConstraint() {
		n.boxConstraints = true
	}
}

// Property returns the value of a property.
func (n *Node) Property(p Property) (string, bool) {
	v, ok := n.props[p]
	return v, ok
}

// RemoveProperty removes a property. On an Update node the property is
// cleared on the client instead.
func (n *Node) RemoveProperty(p Property) {
	n.mutate()
	if n.mode == ModeUpdate {
		if n.props == nil {
			n.props = make(map[Property]string)
		}
		n.props[p] = ""
		return
	}
	delete(n.props, p)
}

// AddChild appends a child. The child is owned by n from now on.
func (n *Node) AddChild(child *Node) {
	n.mutate()
	n.adopt(child)
	n.takeScripts(child)

	if n.canBatch(child) {
		if n.markup == nil {
			n.markup = escape.NewStream()
		}
		js := escape.NewStream()
		child.AsHTML(n.markup, js, &n.markupTimer)
		addStatement(&n.trailing, js.String())
		return
	}
	n.children = append(n.children, insertion{pos: -1, child: child})
}

// InsertChildAt inserts a child before the child currently at pos.
// Positional inserts are never batched.
func (n *Node) InsertChildAt(child *Node, pos int) {
	n.mutate()
	if pos < 0 {
		panic(errors.AssertionFailedf("dom: negative child position %d", pos))
	}
	n.adopt(child)
	n.takeScripts(child)
	n.children = append(n.children, insertion{pos: pos, child: child})
}

func (n *Node) canBatch(child *Node) bool {
	return n.wasEmpty && child.mode == ModeCreate && n.pass.canBulkReplace(n.tag)
}

// takeScripts moves the child's pending scripts to n.
func (n *Node) takeScripts(child *Node) {
	addStatement(&n.survivors, child.survivors.String())
	addStatement(&n.trailing, child.trailing.String())
	child.survivors.Reset()
	child.trailing.Reset()
}

func (n *Node) adopt(child *Node) {
	switch {
	case child == nil:
		panic(errors.AssertionFailedf("dom: nil child for %s", n))
	case child == n:
		panic(errors.AssertionFailedf("dom: %s cannot own itself", n))
	case child.pass != n.pass:
		panic(errors.AssertionFailedf("dom: %s belongs to another pass", child))
	case child.owned:
		panic(errors.AssertionFailedf("dom: %s already has an owner", child))
	case child.spent:
		panic(errors.AssertionFailedf("dom: %s was already emitted", child))
	}
	child.owned = true
}

// RemoveAllChildren clears the element's content. Children added
// afterwards may be batched again.
func (n *Node) RemoveAllChildren() {
	n.mutate()
	n.clearAll = true
	n.wasEmpty = true
}

// RemoveFromParent deletes the element.
func (n *Node) RemoveFromParent() {
	n.mutate()
	n.deleted = true
}

// ReplaceWith swaps the element for replacement. With hideWithDisplay the
// old element is hidden rather than removed.
func (n *Node) ReplaceWith(replacement *Node, hideWithDisplay bool) {
	n.mutate()
	n.adopt(replacement)
	n.replacement = replacement
	n.hideWithDisplay = hideWithDisplay
}

// InsertBefore inserts sibling in front of the element.
func (n *Node) InsertBefore(sibling *Node) {
	n.mutate()
	n.adopt(sibling)
	n.sibling = sibling
}

// SetTimeout registers a timer event on the element.
func (n *Node) SetTimeout(interval time.Duration, repeat bool) {
	n.mutate()
	n.timer = &Timer{Interval: interval, Repeat: repeat}
	n.timerCleared = false
}

// ClearTimeout cancels the timer a previous pass registered on the
// element. It has no effect on a Create node.
func (n *Node) ClearTimeout() {
	n.mutate()
	n.timer = nil
	n.timerCleared = true
}

// CallMethod queues a call on the element, such as "focus()".
func (n *Node) CallMethod(fragment string) {
	n.mutate()
	n.methods = append(n.methods, fragment)
}

// CallJavaScript queues a statement to run after the element is updated.
// Code that survives deletion runs even if the element is removed in the
// same pass.
func (n *Node) CallJavaScript(code string, survivesDeletion bool) {
	n.mutate()
	if survivesDeletion {
		addStatement(&n.survivors, code)
	} else {
		addStatement(&n.trailing, code)
	}
}

// addStatement appends code to b, ending it with a newline so that the
// next fragment starts a statement of its own.
func addStatement(b *strings.Builder, code string) {
	if code == "" {
		return
	}
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
}

// spend marks the node and everything it owns as emitted.
func (n *Node) spend() {
	if n.spent {
		return
	}
	n.spent = true
	for _, c := range n.children {
		c.child.spend()
	}
	if n.replacement != nil {
		n.replacement.spend()
	}
	if n.sibling != nil {
		n.sibling.spend()
	}
}

func (n *Node) release() {
	n.spent = true
	n.attrs = nil
	n.props = nil
	n.events = nil
	n.children = nil
	n.markup = nil
	n.markupTimer = nil
	n.replacement = nil
	n.sibling = nil
	n.methods = nil
}
