// Package dom builds the client-side changes for one synchronization pass.
//
// A Node describes either the creation of a new element (ModeCreate) or
// changes to an element the client already shows (ModeUpdate). Callers
// allocate nodes from a Pass, record changes with the setters, compose
// nodes with AddChild, ReplaceWith and InsertBefore, and finally emit each
// pending node once, either as markup (AsHTML, Create nodes only) or as
// script (AsScript).
//
// # Phases
//
// Script is emitted in three phases. Across the whole pending set, all
// Delete output comes first, then all Create output, then all Update
// output, so no statement refers to an element before it is bound or after
// it is removed:
//
//	pass := dom.NewPass(dom.Config{Env: capability.Standard()})
//	list := pass.ForUpdate("list", "ul")
//	item := pass.Create("li")
//	item.SetProperty(dom.PropText, "new")
//	list.AddChild(item)
//	res := pass.Script(list)
//
// Within a node's Update output the order is fixed: attributes and
// properties, event handlers, children, method calls, script that survives
// deletion, trailing script, timer registration.
//
// # Strategies
//
// A few shortcuts depend on the client, described by a capability.Env:
//
//   - An Update node whose single change is display none/""/inline/block
//     becomes one helper call such as V.hide('id').
//   - Children of an element that had none are written as one markup string
//     (V.setHtml) when the capability table allows it for the tag and
//     runtime, instead of one statement per child.
//   - Without scripting, click handlers degrade to form submission.
//
// Programmer errors, such as an Update node without an id or markup for an
// Update node, panic with an assertion failure.
package dom
