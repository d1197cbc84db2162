package vdom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/domsync/pkg/dom"
)

// state is an element's props resolved into builder terms.
type state struct {
	attrs  map[string]string
	props  map[dom.Property]string
	events map[string]EventHandler
	timer  *Timer

	content     string
	contentProp dom.Plain
	hasContent  bool
}

// describe resolves the props and content of a normalized element.
func describe(n *VNode) state {
	s := state{
		attrs:  make(map[string]string),
		props:  make(map[dom.Property]string),
		events: make(map[string]EventHandler),
	}
	var extraStyle []string

	for key, val := range n.Props {
		switch {
		case isEventHandler(key):
			if h, ok := val.(EventHandler); ok {
				s.events[strings.ToLower(key[2:])] = h
			}
		case key == TimerKey:
			if t, ok := val.(Timer); ok {
				s.timer = &t
			}
		case strings.HasPrefix(key, StylePrefix):
			name := key[len(StylePrefix):]
			value := propToString(val)
			if st, ok := dom.StyleByName(name); ok {
				s.props[st] = value
			} else {
				extraStyle = append(extraStyle, name+":"+value)
			}
		default:
			s.setAttr(key, val)
		}
	}

	if len(extraStyle) > 0 {
		sort.Strings(extraStyle)
		text := strings.Join(extraStyle, ";")
		if base := s.attrs["style"]; base != "" {
			text = strings.TrimSuffix(base, ";") + ";" + text
		}
		s.attrs["style"] = text
	}

	if len(n.Children) == 1 && isContent(n.Children[0]) {
		c := n.Children[0]
		s.hasContent = true
		s.content = c.Text
		s.contentProp = dom.PropText
		if c.Kind == KindRaw {
			s.contentProp = dom.PropInnerHTML
		}
	}
	return s
}

func (s *state) setAttr(key string, val any) {
	p, isProp := dom.PlainByAttribute(key)
	if isProp && p.IsBoolean() {
		on := false
		switch v := val.(type) {
		case bool:
			on = v
		case string:
			on = v != "false"
		default:
			on = val != nil
		}
		s.props[p] = strconv.FormatBool(on)
		return
	}

	if b, ok := val.(bool); ok {
		switch {
		case strings.HasPrefix(key, "aria-"):
			s.attrs[key] = strconv.FormatBool(b)
		case b:
			s.attrs[key] = key
		}
		return
	}
	if val == nil {
		return
	}
	if isProp {
		s.props[p] = propToString(val)
		return
	}
	s.attrs[key] = propToString(val)
}

// propToString converts a prop value to its string form.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Lower builds a Create node for a normalized element and its subtree.
// Elements keep the ids they carry; use AssignIDs first to make every
// element addressable by later updates.
func Lower(p *dom.Pass, n *VNode) *dom.Node {
	node := p.Create(n.Tag)
	if n.ID != "" {
		node.SetID(n.ID)
	}
	s := describe(n)

	for _, name := range sortedKeys(s.attrs) {
		node.SetAttribute(name, s.attrs[name])
	}
	for prop, value := range s.props {
		node.SetProperty(prop, value)
	}
	for _, name := range sortedKeys(s.events) {
		h := s.events[name]
		node.SetEvent(name, h.Code, h.Command, h.Command != "")
	}
	if s.timer != nil {
		node.SetTimeout(s.timer.Interval, s.timer.Repeat)
	}

	if s.hasContent {
		node.SetProperty(s.contentProp, s.content)
		return node
	}
	for _, c := range n.Children {
		node.AddChild(Lower(p, c))
	}
	return node
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
