// Package escape provides Stream, a text sink that escapes everything written
// through it according to a stack of rule sets.
//
// Rule sets compose: pushing JSStringSingle on top of HTMLAttribute produces
// text that is first a valid single-quoted script literal and then a valid
// double-quoted attribute value, which is what an inline event handler
// carrying a string argument needs.
//
//	out := escape.NewStream()
//	out.AppendRaw(`<a onclick="`)
//	out.Push(escape.HTMLAttribute)
//	out.AppendRaw("f('")
//	out.Push(escape.JSStringSingle)
//	out.Append(`it's "quoted"`)
//	out.Pop()
//	out.AppendRaw("')")
//	out.Pop()
//	out.AppendRaw(`">`)
//
// AppendRaw bypasses every rule, so fragments that were already escaped for
// the current context (for example child markup rendered into a derived
// stream) can be spliced in without being escaped twice.
package escape
