package dom

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vango-dev/domsync/pkg/escape"
)

// fastPathHelpers maps display values to the client helper that applies
// them. Only these values take the single-call shortcut.
var fastPathHelpers = map[string]string{
	"none":   "hide",
	"":       "show",
	"inline": "inline",
	"block":  "block",
}

// quote writes s as a single-quoted script string.
func quote(out *escape.Stream, s string) {
	out.AppendRaw("'")
	out.Push(escape.JSStringSingle)
	out.Append(s)
	out.Pop()
	out.AppendRaw("'")
}

// declare binds the element to a script variable the first time the node
// is referenced and returns the variable.
func (n *Node) declare(out *escape.Stream) string {
	if n.variable != "" {
		return n.variable
	}
	n.variable = "j" + strconv.Itoa(n.pass.seq.Next())
	n.pass.stats.Declared++

	out.AppendRaw("var " + n.variable + "=")
	if n.mode == ModeCreate {
		out.AppendRaw("document.createElement(")
		quote(out, n.tag)
	} else {
		out.AppendRaw(n.pass.config.Namespace + ".$(")
		quote(out, n.id)
	}
	out.AppendRaw(");\n")
	return n.variable
}

// AsScript writes the part of the node's script that belongs to phase.
// Callers emitting several nodes must run a phase for all of them before
// starting the next one; Pass.Script does that.
func (n *Node) AsScript(out *escape.Stream, phase Phase) {
	if n.spent {
		panic(errors.AssertionFailedf("dom: %s used after it was emitted", n))
	}
	switch phase {
	case PhaseDelete:
		n.emitDelete(out)
	case PhaseCreate:
		n.emitCreate(out)
	case PhaseUpdate:
		n.emitUpdate(out)
	}
}

func (n *Node) emitDelete(out *escape.Stream) {
	if n.deleted {
		if n.mode == ModeCreate {
			return
		}
		v := n.declare(out)
		appendScript(out, n.survivors.String())
		out.AppendRaw(v + ".parentNode.removeChild(" + v + ");\n")
		return
	}
	if n.clearAll {
		v := n.declare(out)
		out.AppendRaw(n.pass.config.Namespace + ".setHtml(" + v + ",'',false);\n")
	}
}

func (n *Node) emitCreate(out *escape.Stream) {
	if n.mode != ModeCreate || n.deleted {
		return
	}
	n.applyRules()
	if n.timer != nil {
		n.ensureID()
	}
	v := n.declare(out)
	if n.id != "" {
		out.AppendRaw(v + ".setAttribute('id',")
		quote(out, n.id)
		out.AppendRaw(");\n")
	}
	n.emitAttributes(out, v)
	n.emitProperties(out, v)
}

func (n *Node) emitAttributes(out *escape.Stream, v string) {
	for _, name := range n.removedAttrs {
		if _, reset := n.attrs[name]; reset {
			continue
		}
		out.AppendRaw(v + ".removeAttribute(")
		quote(out, name)
		out.AppendRaw(");\n")
	}
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.AppendRaw(v + ".setAttribute(")
		quote(out, name)
		out.AppendRaw(",")
		quote(out, n.attrs[name])
		out.AppendRaw(");\n")
	}
}

func (n *Node) emitProperties(out *escape.Stream, v string) {
	ns := n.pass.config.Namespace
	for _, pv := range n.sortedProps() {
		switch p := pv.prop.(type) {
		case Style:
			value := pv.value
			if p == StyleCursor && value == "pointer" && n.pass.config.Env.IsLegacyIE() {
				value = "hand"
			}
			if strings.HasPrefix(value, expressionPrefix) {
				out.AppendRaw(v + ".style.setExpression(")
				quote(out, p.ScriptName())
				out.AppendRaw(",")
				quote(out, strings.TrimSuffix(strings.TrimPrefix(value, expressionPrefix), ")"))
				out.AppendRaw(");\n")
				continue
			}
			out.AppendRaw(v + ".style." + p.ScriptName() + "=")
			quote(out, value)
			out.AppendRaw(";\n")
		case Plain:
			switch {
			case p == PropInnerHTML:
				out.AppendRaw(ns + ".setHtml(" + v + ",")
				quote(out, pv.value)
				out.AppendRaw(",false);\n")
			case p == PropText:
				out.AppendRaw(ns + ".setHtml(" + v + ",")
				quote(out, escape.String(pv.value, escape.PlainText))
				out.AppendRaw(",false);\n")
			case p.IsBoolean():
				out.AppendRaw(v + "." + p.ScriptName() + "=" + strconv.FormatBool(pv.value == "true") + ";\n")
			default:
				out.AppendRaw(v + "." + p.ScriptName() + "=")
				quote(out, pv.value)
				out.AppendRaw(";\n")
			}
		}
	}
}

// fastPath emits the single helper call for an Update node whose only
// change is a recognized display value.
func (n *Node) fastPath(out *escape.Stream) bool {
	if n.mode != ModeUpdate || n.mutations != 1 || len(n.props) != 1 {
		return false
	}
	display, ok := n.props[StyleDisplay]
	if !ok {
		return false
	}
	helper, ok := fastPathHelpers[display]
	if !ok {
		return false
	}
	n.pass.stats.FastPath++
	out.AppendRaw(n.pass.config.Namespace + "." + helper + "(")
	quote(out, n.id)
	out.AppendRaw(");\n")
	return true
}

func (n *Node) emitUpdate(out *escape.Stream) {
	if n.deleted {
		return
	}
	if n.fastPath(out) {
		return
	}
	n.applyRules()
	ns := n.pass.config.Namespace

	if r := n.replacement; r != nil {
		v := n.declare(out)
		rv := r.declare(out)
		r.emitCreate(out)
		r.emitUpdate(out)
		hide := "0"
		if n.hideWithDisplay {
			hide = "1"
		}
		out.AppendRaw(ns + ".unstub(" + v + "," + rv + "," + hide + ");\n")
		return
	}

	if s := n.sibling; s != nil {
		v := n.declare(out)
		sv := s.declare(out)
		s.emitCreate(out)
		out.AppendRaw(v + ".parentNode.insertBefore(" + sv + "," + v + ");\n")
		s.emitUpdate(out)
		return
	}

	if n.mode == ModeUpdate && (len(n.attrs) > 0 || len(n.removedAttrs) > 0 || len(n.props) > 0) {
		v := n.declare(out)
		n.emitAttributes(out, v)
		n.emitProperties(out, v)
	}

	n.emitEvents(out)
	n.emitChildren(out)

	for _, m := range n.methods {
		v := n.declare(out)
		out.AppendRaw(v + "." + m + ";\n")
	}
	appendScript(out, n.survivors.String())
	appendScript(out, n.trailing.String())

	switch {
	case n.timer != nil:
		t := *n.timer
		t.ID = n.ensureID()
		n.emitTimer(out, t)
	case n.timerCleared && n.mode == ModeUpdate:
		out.AppendRaw(ns + ".removeTimer(")
		quote(out, n.id)
		out.AppendRaw(");\n")
	}
}

func (n *Node) emitEvents(out *escape.Stream) {
	for _, name := range n.eventNames() {
		h := n.events[name]
		if h.code == "" && n.mode != ModeUpdate {
			continue
		}
		target := "document"
		if !isKeyboardEvent(name) || !n.isRoot() {
			target = n.declare(out)
		}
		fn := "f" + strconv.Itoa(n.pass.seq.Next())
		out.AppendRaw("function " + fn + "(event){" + h.code + "}\n")
		out.AppendRaw(target + ".on" + name + "=" + fn + ";\n")
	}
}

func (n *Node) emitChildren(out *escape.Stream) {
	ns := n.pass.config.Namespace
	pending := n.children

	if n.wasEmpty && n.pass.canBulkReplace(n.tag) {
		var batched, rest []insertion
		for _, c := range n.children {
			if c.pos < 0 && c.child.mode == ModeCreate {
				batched = append(batched, c)
			} else {
				rest = append(rest, c)
			}
		}
		if len(batched) > 0 || (n.markup != nil && !n.markup.Empty()) {
			n.pass.stats.BulkReplace++
			v := n.declare(out)
			js := escape.NewStream()
			var timers []Timer

			out.AppendRaw(ns + ".setHtml(" + v + ",'")
			out.Push(escape.JSStringSingle)
			for _, c := range batched {
				c.child.AsHTML(out, js, &timers)
			}
			if n.markup != nil {
				out.Append(n.markup.String())
			}
			out.Pop()
			out.AppendRaw("',false);\n")

			timers = append(timers, n.markupTimer...)
			for _, t := range timers {
				n.emitTimer(out, t)
			}
			out.AppendStream(js)
		}
		pending = rest
	}

	for _, c := range pending {
		v := n.declare(out)
		cv := c.child.declare(out)
		c.child.emitCreate(out)
		if c.pos < 0 {
			out.AppendRaw(v + ".appendChild(" + cv + ");\n")
		} else {
			out.AppendRaw(v + ".insertBefore(" + cv + "," + v + ".childNodes[" + strconv.Itoa(c.pos) + "]||null);\n")
		}
		c.child.emitUpdate(out)
	}
}

// appendScript writes caller-supplied statements on their own line.
func appendScript(out *escape.Stream, code string) {
	if code == "" {
		return
	}
	out.AppendRaw(code)
	if !strings.HasSuffix(code, "\n") {
		out.AppendRaw("\n")
	}
}

func (n *Node) emitTimer(out *escape.Stream, t Timer) {
	out.AppendRaw(n.pass.config.Namespace + ".addTimer(")
	quote(out, t.ID)
	out.AppendRaw("," + strconv.Itoa(t.Millis()) + "," + strconv.FormatBool(t.Repeat) + ");\n")
}
