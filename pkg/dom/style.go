package dom

import (
	"sort"
	"strings"

	"github.com/vango-dev/domsync/pkg/capability"
	"github.com/vango-dev/domsync/pkg/escape"
)

type propValue struct {
	prop  Property
	value string
}

func (n *Node) sortedProps() []propValue {
	out := make([]propValue, 0, len(n.props))
	for p, v := range n.props {
		out = append(out, propValue{p, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].prop.rank() < out[j].prop.rank() })
	return out
}

// cssText synthesizes the inline style from the "style" attribute and the
// style properties.
func (n *Node) cssText() string {
	var b strings.Builder
	if s := n.attrs["style"]; s != "" {
		b.WriteString(s)
		if !strings.HasSuffix(s, ";") {
			b.WriteByte(';')
		}
	}
	for _, pv := range n.sortedProps() {
		s, ok := pv.prop.(Style)
		if !ok || pv.value == "" {
			continue
		}
		b.WriteString(s.CSSName())
		b.WriteByte(':')
		b.WriteString(pv.value)
		b.WriteByte(';')
		if s == StyleCursor && pv.value == "pointer" {
			// Engines that predate "pointer" only know "hand"; each ignores
			// the declaration it cannot parse.
			b.WriteString("cursor:hand;")
		}
	}
	return b.String()
}

const expressionPrefix = "expression("

// adjustProperties rewrites properties the engine cannot honour as given.
func (n *Node) adjustProperties(env capability.Env) {
	if n.boxConstraints && env.HasQuirk(capability.QuirkNoMinMaxSize) {
		n.foldBoxConstraint(StyleWidth, StyleMinWidth, StyleMaxWidth)
		n.foldBoxConstraint(StyleHeight, StyleMinHeight, StyleMaxHeight)
	}
	if env.IsRightToLeft() {
		n.mirror()
	}
}

// foldBoxConstraint replaces min/max constraints on dim by an expression
// that the engine re-evaluates on layout.
func (n *Node) foldBoxConstraint(dim, minimum, maximum Style) {
	lo, hasMin := n.props[minimum]
	hi, hasMax := n.props[maximum]
	if !hasMin && !hasMax {
		return
	}
	base := n.props[dim]
	q := func(s string) string { return "'" + escape.String(s, escape.JSStringSingle) + "'" }
	n.props[dim] = expressionPrefix + n.pass.config.Namespace + ".constrain(this," +
		q(dim.CSSName()) + "," + q(base) + "," + q(lo) + "," + q(hi) + "))"
	delete(n.props, minimum)
	delete(n.props, maximum)
}

var mirroredStyles = [][2]Style{
	{StyleLeft, StyleRight},
	{StyleMarginLeft, StyleMarginRight},
	{StylePaddingLeft, StylePaddingRight},
}

// mirror swaps horizontal properties for a right-to-left presentation.
func (n *Node) mirror() {
	for _, pair := range mirroredStyles {
		a, hasA := n.props[pair[0]]
		b, hasB := n.props[pair[1]]
		delete(n.props, pair[0])
		delete(n.props, pair[1])
		if hasA {
			n.props[pair[1]] = a
		}
		if hasB {
			n.props[pair[0]] = b
		}
	}
	for _, s := range []Style{StyleFloat, StyleTextAlign} {
		switch n.props[s] {
		case "left":
			n.props[s] = "right"
		case "right":
			n.props[s] = "left"
		}
	}
}
