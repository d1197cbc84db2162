package escape

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Decode reverses escaping the way the client does when it parses the text:
// rules are given in the same order they were pushed, so the outermost
// context is decoded first.
func Decode(s string, rules ...Rule) (string, error) {
	for _, r := range rules {
		var err error
		if s, err = decode(r, s); err != nil {
			return "", err
		}
	}
	return s, nil
}

func decode(r Rule, s string) (string, error) {
	switch r {
	case HTMLAttribute, PlainText:
		return html.UnescapeString(s), nil
	case PlainTextNewlines:
		return html.UnescapeString(strings.ReplaceAll(s, "<br />", "\n")), nil
	case JSStringSingle, JSStringDouble:
		return decodeJSString(s)
	default:
		return "", fmt.Errorf("escape: unknown rule %d", r)
	}
}

func decodeJSString(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("escape: dangling backslash in %q", s)
		}
		switch s[i] {
		case '\\', '\'', '"':
			buf.WriteByte(s[i])
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'x':
			if i+2 >= len(s) {
				return "", fmt.Errorf("escape: short \\x sequence in %q", s)
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("escape: bad \\x sequence in %q: %w", s, err)
			}
			buf.WriteByte(byte(v))
			i += 2
		default:
			return "", fmt.Errorf("escape: unknown escape \\%c in %q", s[i], s)
		}
	}
	return buf.String(), nil
}
