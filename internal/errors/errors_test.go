package errors

import (
	"bytes"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"config error", "D002", "Invalid configuration file", CategoryConfig},
		{"render error", "D020", "Render pass failed", CategoryRender},
		{"protocol error", "D040", "Malformed frame", CategoryProtocol},
		{"unknown error code", "D999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "tree.yaml")
	if err.Message != `file "tree.yaml" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `file "tree.yaml" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := New("D021").Wrap(cause)

	want := "D021: Invalid tree file: unexpected EOF"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !goerrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var target *Error
	if !goerrors.As(fmt.Errorf("serve: %w", err), &target) || target.Code != "D021" {
		t.Errorf("errors.As failed: %v", target)
	}
}

func TestWithLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "domsync.json")
	content := "{\n  \"addr\": \":8080\",\n  \"namespace\": \"1x\",\n  \"rootId\": \"app\"\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New("D003").WithLocation(path, 3, 16)
	if err.Location.Line != 3 || err.Location.Column != 16 {
		t.Errorf("Location = %v", err.Location)
	}
	if len(err.Context) != 5 {
		t.Fatalf("got %d context lines, want 5: %q", len(err.Context), err.Context)
	}
	if err.Context[1] != `  "addr": ":8080",` {
		t.Errorf("Context[1] = %q", err.Context[1])
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "D020") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("D001")
	if FromError(e, "D002") != e {
		t.Error("FromError should return an *Error as-is")
	}

	std := fmt.Errorf("boom")
	if got := FromError(std, "D020"); got.Wrapped != std || got.Code != "D020" {
		t.Errorf("got %+v", got)
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "tree.yaml", Line: 10, Column: 5}, "tree.yaml:10:5"},
		{"without column", &Location{File: "tree.yaml", Line: 10}, "tree.yaml:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	if err := os.WriteFile(path, []byte("tag: ul\nchildren:\n  - {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	formatted := New("D021").
		WithLocation(path, 3, 5).
		WithSuggestion("give every node a tag or text").
		Wrap(fmt.Errorf("node has neither tag nor text")).
		Format()

	for _, want := range []string{
		"ERROR D021: Invalid tree file",
		path + ":3:5",
		"→    3 │   - {}",
		"Cause: node has neither tag nor text",
		"Hint: give every node a tag or text",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() is missing %q:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() used colors while disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := &Error{Code: "D003", Message: "Invalid configuration value", Location: &Location{File: "domsync.json", Line: 3}}
	want := "domsync.json:3: D003: Invalid configuration value"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("D040").Wrap(fmt.Errorf("short frame"))
	var got map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &got); e != nil {
		t.Fatal(e)
	}
	if got["code"] != "D040" || got["category"] != "protocol" || got["cause"] != "short frame" {
		t.Errorf("got %v", got)
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, fmt.Errorf("publish: %w", New("D061")))
	if !strings.Contains(buf.String(), "ERROR D061: Snapshot publish failed") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	Print(&buf, fmt.Errorf("plain"))
	if buf.String() != "\nERROR: plain\n\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestCodes(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 || codes[0] != "D001" {
		t.Fatalf("got %v", codes)
	}
	for _, code := range codes {
		tmpl, ok := Lookup(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s: incomplete template %+v", code, tmpl)
		}
	}
	if _, ok := Lookup("D999"); ok {
		t.Error("D999 should not exist")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Errorf("short text: got %v", got)
	}
	if got := wrapText("this is a longer text that should be wrapped", 20); len(got) != 3 {
		t.Errorf("long text: expected 3 lines, got %d: %v", len(got), got)
	}
	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("empty: got %v", got)
	}
}
