package vdom

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrEmptyNode is returned for a tree node that has neither a tag nor
// text.
var ErrEmptyNode = errors.New("vdom: node has neither tag nor text")

// Source is the file form of a tree, as read from JSON or YAML.
//
//	tag: ul
//	id: list
//	attrs: {class: items}
//	style: {display: block}
//	events: {click: {command: open}}
//	children:
//	  - {tag: li, key: a, text: first}
type Source struct {
	Tag      string                 `json:"tag,omitempty" yaml:"tag,omitempty"`
	ID       string                 `json:"id,omitempty" yaml:"id,omitempty"`
	Key      string                 `json:"key,omitempty" yaml:"key,omitempty"`
	Text     string                 `json:"text,omitempty" yaml:"text,omitempty"`
	Raw      string                 `json:"raw,omitempty" yaml:"raw,omitempty"`
	Attrs    map[string]string      `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Style    map[string]string      `json:"style,omitempty" yaml:"style,omitempty"`
	Events   map[string]EventSource `json:"events,omitempty" yaml:"events,omitempty"`
	Timer    *TimerSource           `json:"timer,omitempty" yaml:"timer,omitempty"`
	Children []Source               `json:"children,omitempty" yaml:"children,omitempty"`
}

// EventSource is the file form of an EventHandler.
type EventSource struct {
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
}

// TimerSource is the file form of a Timer. Interval uses time.Duration
// syntax, such as "500ms".
type TimerSource struct {
	Interval string `json:"interval" yaml:"interval"`
	Repeat   bool   `json:"repeat,omitempty" yaml:"repeat,omitempty"`
}

// Node converts the source into a tree.
func (s Source) Node() (*VNode, error) {
	if s.Tag == "" {
		switch {
		case s.Raw != "":
			return Raw(s.Raw), nil
		case s.Text != "":
			return Text(s.Text), nil
		}
		return nil, ErrEmptyNode
	}

	n := &VNode{Kind: KindElement, Tag: s.Tag, ID: s.ID, Key: s.Key, Props: make(Props)}
	for k, v := range s.Attrs {
		n.setAttr(Attr{Key: k, Value: v})
	}
	for k, v := range s.Style {
		n.Props[StylePrefix+k] = v
	}
	for name, e := range s.Events {
		n.add(EventHandler{Event: name, Code: e.Code, Command: e.Command})
	}
	if s.Timer != nil {
		d, err := time.ParseDuration(s.Timer.Interval)
		if err != nil {
			return nil, errors.Wrapf(err, "vdom: timer on <%s>", s.Tag)
		}
		n.Props[TimerKey] = Timer{Interval: d, Repeat: s.Timer.Repeat}
	}

	switch {
	case s.Raw != "":
		n.add(Raw(s.Raw))
	case s.Text != "":
		n.add(Text(s.Text))
	}
	for i, cs := range s.Children {
		c, err := cs.Node()
		if err != nil {
			return nil, errors.Wrapf(err, "<%s> child %d", s.Tag, i)
		}
		n.add(c)
	}
	return n, nil
}

// ParseJSON reads a tree from JSON. Unknown fields are rejected.
func ParseJSON(data []byte) (*VNode, error) {
	var s Source
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "vdom: decode json")
	}
	return s.Node()
}

// ParseYAML reads a tree from YAML. Unknown fields are rejected.
func ParseYAML(data []byte) (*VNode, error) {
	var s Source
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "vdom: decode yaml")
	}
	return s.Node()
}

// ParseFile reads a tree file, choosing the format by extension.
func ParseFile(path string) (*VNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, errors.Newf("vdom: unknown tree format %q", filepath.Ext(path))
	}
}
