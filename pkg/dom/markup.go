package dom

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/vango-dev/domsync/pkg/escape"
)

// voidElements cannot have content or a closing tag.
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

// IsVoidElement reports whether tag has no content or closing tag.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// noSubmitWrap lists elements that cannot be nested in a submit button.
var noSubmitWrap = map[string]bool{
	"area":   true,
	"input":  true,
	"select": true,
}

// AsHTML renders the node and its children as markup into out. Timers of
// the subtree are appended to timers; script that has no markup form is
// written to js. It panics unless the node is in Create mode. The node is
// spent afterwards.
func (n *Node) AsHTML(out, js *escape.Stream, timers *[]Timer) {
	if n.mode != ModeCreate {
		panic(errors.AssertionFailedf("dom: markup requested for %s", n))
	}
	if n.spent {
		panic(errors.AssertionFailedf("dom: %s used after it was emitted", n))
	}
	n.applyRules()
	env := n.pass.config.Env
	ns := n.pass.config.Namespace

	if len(n.methods) > 0 || n.timer != nil || n.props[PropIndeterminate] == "true" {
		n.ensureID()
	}

	tag := n.tag
	attrs := n.attrs
	click, hasClick := n.events["click"]
	wrap := !env.ScriptingAvailable() && !env.IsCrawler() && hasClick && click.code != ""
	if wrap {
		switch {
		case tag == "button":
			attrs = withAttrs(attrs, "type", "submit", "name", "signal="+click.command)
			wrap = false
		case tag == "img":
			tag = "input"
			attrs = withAttrs(attrs, "type", "image", "name", "signal="+click.command)
			wrap = false
		case noSubmitWrap[tag]:
			wrap = false
		case tag == "a" && (attrs["href"] != "" || env.IsLegacyIE()):
			wrap = false
		}
	}

	if wrap {
		out.Append(`<button type="submit" name="signal" value="`)
		appendAttrValue(out, click.command)
		out.Append(`" class="v-wrap">`)
	}

	out.Append("<").Append(tag)
	if n.id != "" {
		out.Append(` id="`)
		appendAttrValue(out, n.id)
		out.Append(`"`)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if name != "style" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		out.Append(" ").Append(name).Append(`="`)
		appendAttrValue(out, attrs[name])
		out.Append(`"`)
	}

	var content string
	hasContent, escapeContent := false, false
	for _, pv := range n.sortedProps() {
		p, ok := pv.prop.(Plain)
		if !ok {
			continue
		}
		switch {
		case p == PropInnerHTML:
			content, hasContent, escapeContent = pv.value, true, false
		case p == PropText:
			content, hasContent, escapeContent = pv.value, true, true
		case p == PropValue && tag == "textarea":
			content, hasContent, escapeContent = pv.value, true, true
		case p == PropIndeterminate:
			if pv.value == "true" {
				js.AppendRaw(ns + ".$('" + escape.String(n.id, escape.JSStringSingle) + "').indeterminate=true;\n")
			}
		case p.IsBoolean():
			if pv.value == "true" {
				out.Append(" ").Append(p.AttributeName()).Append(`="`).Append(p.AttributeName()).Append(`"`)
			}
		default:
			out.Append(" ").Append(p.AttributeName()).Append(`="`)
			appendAttrValue(out, pv.value)
			out.Append(`"`)
		}
	}

	if env.ScriptingAvailable() {
		for _, name := range n.eventNames() {
			h := n.events[name]
			if h.code == "" {
				continue
			}
			if isKeyboardEvent(name) && n.isRoot() {
				js.AppendRaw("document.on" + name + "=function(event){" + h.code + "};\n")
				continue
			}
			out.Append(" on").Append(name).Append(`="`)
			appendAttrValue(out, h.code)
			out.Append(`"`)
		}
	}

	if css := n.cssText(); css != "" {
		out.Append(` style="`)
		appendAttrValue(out, css)
		out.Append(`"`)
	}
	out.Append(">")

	if !IsVoidElement(tag) {
		if hasContent {
			if escapeContent {
				out.Push(escape.PlainText)
				out.Append(content)
				out.Pop()
			} else {
				out.Append(content)
			}
		}
		for _, c := range n.children {
			c.child.AsHTML(out, js, timers)
		}
		if n.markup != nil {
			out.Append(n.markup.String())
		}
		out.Append("</").Append(tag).Append(">")
	}

	if wrap {
		out.Append("</button>")
	}

	*timers = append(*timers, n.markupTimer...)
	if n.timer != nil {
		t := *n.timer
		t.ID = n.id
		*timers = append(*timers, t)
	}

	for _, m := range n.methods {
		js.AppendRaw(ns + ".$('" + escape.String(n.id, escape.JSStringSingle) + "')." + m + ";\n")
	}
	appendScript(js, n.survivors.String())
	appendScript(js, n.trailing.String())

	n.spend()
}

func (n *Node) isRoot() bool {
	return n.id != "" && n.id == n.pass.config.RootID
}

func appendAttrValue(out *escape.Stream, value string) {
	out.Push(escape.HTMLAttribute)
	out.Append(value)
	out.Pop()
}

// withAttrs returns a copy of attrs with the given name/value pairs set.
func withAttrs(attrs map[string]string, kv ...string) map[string]string {
	out := make(map[string]string, len(attrs)+len(kv)/2)
	for k, v := range attrs {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}
