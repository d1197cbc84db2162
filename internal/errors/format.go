package errors

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"strings"
)

// style is an ANSI SGR sequence.
type style string

const (
	styleRed    style = "\033[31m"
	styleYellow style = "\033[33m"
	styleCyan   style = "\033[36m"
	styleWhite  style = "\033[37m"
	styleGray   style = "\033[90m"
	styleBold   style = "\033[1m"
	styleReset  style = "\033[0m"
)

var colorEnabled = true

// DisableColors makes Format and Print emit plain text.
func DisableColors() { colorEnabled = false }

func EnableColors() { colorEnabled = true }

// paint applies the styles to text in order.
func paint(text string, styles ...style) string {
	if !colorEnabled || len(styles) == 0 {
		return text
	}
	var b strings.Builder
	for _, s := range styles {
		b.WriteString(string(s))
	}
	b.WriteString(text)
	b.WriteString(string(styleReset))
	return b.String()
}

// Format returns the error laid out for a terminal: a heading, the
// offending source lines, the detail text, then cause and hint.
func (e *Error) Format() string {
	var b strings.Builder

	heading := "ERROR: "
	if e.Code != "" {
		heading = "ERROR "
	}
	b.WriteString("\n" + paint(heading, styleRed, styleBold))
	if e.Code != "" {
		b.WriteString(paint(e.Code+": ", styleWhite, styleBold))
	}
	b.WriteString(paint(e.Message, styleWhite) + "\n\n")

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(e.Location.String(), styleCyan))
		e.writeContext(&b)
	}

	if lines := wrapText(e.Detail, 70); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n\n", paint("Cause: ", styleYellow), e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint("Hint: ", styleCyan), e.Suggestion)
	}
	return b.String()
}

// writeContext prints the source lines around Location, marking the
// offending line and, when known, the column.
func (e *Error) writeContext(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}
	first := max(e.Location.Line-contextLines/2, 1)
	bar := paint(" │ ", styleGray)
	for i, text := range e.Context {
		n := first + i
		marker := "    "
		if n == e.Location.Line {
			marker = "  " + paint("→ ", styleRed)
		}
		fmt.Fprintf(b, "%s%4d%s%s\n", marker, n, bar, text)
		if n == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", paint("│ ", styleGray), strings.Repeat(" ", e.Location.Column-1), paint("^", styleRed))
		}
	}
	b.WriteString("\n")
}

// FormatCompact returns a single-line form of the error.
func (e *Error) FormatCompact() string {
	var b strings.Builder
	if e.Location != nil {
		b.WriteString(e.Location.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Error())
	return b.String()
}

type jsonError struct {
	Code       string    `json:"code,omitempty"`
	Category   Category  `json:"category"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Cause      string    `json:"cause,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	j := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		j.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes. A single word
// longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Print writes err to w, in full when it is or wraps an *Error.
func Print(w io.Writer, err error) {
	if e := (*Error)(nil); goerrors.As(err, &e) {
		io.WriteString(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", styleRed, styleBold), err)
}
