package escape

import (
	"strconv"
	"strings"
)

// Rule identifies a set of escaping substitutions.
type Rule uint8

const (
	// HTMLAttribute escapes text for a double-quoted attribute value.
	HTMLAttribute Rule = iota
	// JSStringSingle escapes text for a single-quoted script string literal.
	JSStringSingle
	// JSStringDouble escapes text for a double-quoted script string literal.
	JSStringDouble
	// PlainText escapes text for element content.
	PlainText
	// PlainTextNewlines is PlainText that also turns newlines into line breaks.
	PlainTextNewlines
)

// String returns the name of the rule.
func (r Rule) String() string {
	switch r {
	case HTMLAttribute:
		return "HTMLAttribute"
	case JSStringSingle:
		return "JSStringSingle"
	case JSStringDouble:
		return "JSStringDouble"
	case PlainText:
		return "PlainText"
	case PlainTextNewlines:
		return "PlainTextNewlines"
	default:
		return "Unknown"
	}
}

type table [256]string

var tables = [...]table{
	HTMLAttribute: build(map[byte]string{
		'&':  "&amp;",
		'"':  "&#34;",
		'<':  "&lt;",
		'>':  "&gt;",
		'\n': "&#10;",
		'\r': "&#13;",
	}),
	JSStringSingle: build(map[byte]string{
		'\\': `\\`,
		'\'': `\'`,
		'\n': `\n`,
		'\r': `\r`,
		'\t': `\t`,
		'<':  `\x3C`,
	}),
	JSStringDouble: build(map[byte]string{
		'\\': `\\`,
		'"':  `\"`,
		'\n': `\n`,
		'\r': `\r`,
		'\t': `\t`,
		'<':  `\x3C`,
	}),
	PlainText: build(map[byte]string{
		'&': "&amp;",
		'<': "&lt;",
		'>': "&gt;",
	}),
	PlainTextNewlines: build(map[byte]string{
		'&':  "&amp;",
		'<':  "&lt;",
		'>':  "&gt;",
		'\n': "<br />",
	}),
}

func build(m map[byte]string) table {
	var t table
	for b, s := range m {
		t[b] = s
	}
	return t
}

// apply escapes s with a single rule. Every special character is ASCII, so
// working byte by byte never splits a multi-byte sequence.
func apply(r Rule, s string) string {
	t := &tables[r]
	start := 0
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		rep := t[s[i]]
		if rep == "" {
			continue
		}
		if buf.Len() == 0 {
			buf.Grow(len(s) + 8)
		}
		buf.WriteString(s[start:i])
		buf.WriteString(rep)
		start = i + 1
	}
	if start == 0 {
		return s
	}
	buf.WriteString(s[start:])
	return buf.String()
}

// String escapes s with the given rules, innermost first.
func String(s string, rules ...Rule) string {
	for i := len(rules) - 1; i >= 0; i-- {
		s = apply(rules[i], s)
	}
	return s
}

// Stream is a buffered text sink with a stack of escaping rules.
// The zero value is an empty stream with no active rules.
type Stream struct {
	buf   strings.Builder
	rules []Rule
}

// NewStream creates an empty stream with no active rules.
func NewStream() *Stream {
	return &Stream{}
}

// Derive returns an empty stream whose rule stack is a copy of s's.
// Text appended to the derived stream is escaped exactly as it would have
// been in s, so its contents can later be spliced into s with AppendRaw.
func (s *Stream) Derive() *Stream {
	d := &Stream{}
	if len(s.rules) > 0 {
		d.rules = append(make([]Rule, 0, len(s.rules)), s.rules...)
	}
	return d
}

// Push activates r on top of the current rules.
func (s *Stream) Push(r Rule) {
	s.rules = append(s.rules, r)
}

// Pop deactivates the most recently pushed rule.
func (s *Stream) Pop() {
	if len(s.rules) == 0 {
		panic("escape: Pop on empty rule stack")
	}
	s.rules = s.rules[:len(s.rules)-1]
}

// Depth returns the number of active rules.
func (s *Stream) Depth() int {
	return len(s.rules)
}

// Append writes text escaped by every active rule.
func (s *Stream) Append(text string) *Stream {
	if len(s.rules) == 0 {
		s.buf.WriteString(text)
		return s
	}
	s.buf.WriteString(String(text, s.rules...))
	return s
}

// AppendRaw writes text without escaping.
func (s *Stream) AppendRaw(text string) *Stream {
	s.buf.WriteString(text)
	return s
}

// AppendInt writes the decimal form of n. Digits never need escaping.
func (s *Stream) AppendInt(n int) *Stream {
	s.buf.WriteString(strconv.Itoa(n))
	return s
}

// AppendStream splices the contents of other without escaping.
func (s *Stream) AppendStream(other *Stream) *Stream {
	if other != nil {
		s.buf.WriteString(other.buf.String())
	}
	return s
}

// Write implements io.Writer; the bytes are escaped like Append.
func (s *Stream) Write(p []byte) (int, error) {
	s.Append(string(p))
	return len(p), nil
}

// WriteString implements io.StringWriter; the text is escaped like Append.
func (s *Stream) WriteString(text string) (int, error) {
	s.Append(text)
	return len(text), nil
}

// String returns the buffered text.
func (s *Stream) String() string {
	return s.buf.String()
}

// Len returns the number of buffered bytes.
func (s *Stream) Len() int {
	return s.buf.Len()
}

// Empty reports whether nothing has been written.
func (s *Stream) Empty() bool {
	return s.buf.Len() == 0
}

// Reset discards the buffered text. The rule stack is kept.
func (s *Stream) Reset() {
	s.buf.Reset()
}
