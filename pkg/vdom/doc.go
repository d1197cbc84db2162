// Package vdom provides the declarative tree that drives the patch builder.
//
// A VNode tree describes what the page should look like. Lower turns a
// tree into Create nodes for the first render and Diff compares the tree
// that was rendered with a new one, producing Update nodes for the next
// pass.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    OnClick("open"),
//	)
//
// Trees can also be read from JSON or YAML files, see Source.
//
// # Ids
//
// Updates address elements by id. AssignIDs numbers every element once;
// Diff carries ids over to the new tree and numbers what is new.
//
// # Diffing
//
// Children with keys are matched by key, the rest by position. A changed
// tag replaces the element. Toggling only the display style of an element
// produces a single show or hide call on the client.
package vdom
