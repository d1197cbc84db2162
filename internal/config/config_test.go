package config

import (
	goerrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/capability"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func errorCode(err error) string {
	var e *errors.Error
	if goerrors.As(err, &e) {
		return e.Code
	}
	return ""
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Render.Namespace != DefaultNamespace {
		t.Errorf("Render.Namespace = %q, want %q", cfg.Render.Namespace, DefaultNamespace)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	if code := errorCode(err); code != "D001" {
		t.Errorf("missing config: got %v, want D001", err)
	}

	writeConfig(t, dir, `{
  "name": "demo",
  "server": {"port": 8080, "tree": "page.yaml"},
  "render": {"namespace": "App", "noBulkReplace": {"standard": ["ul"]}},
  "snapshot": {"store": "s3", "bucket": "pages"},
  "metrics": {"enabled": false}
}
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Server.Title != "demo" {
		t.Errorf("Server.Title = %q, want the project name", cfg.Server.Title)
	}
	if cfg.Render.Namespace != "App" || cfg.Render.RootID != DefaultRootID {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled")
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q", cfg.Metrics.Path)
	}
	if got := cfg.TreePath(); got != filepath.Join(dir, "page.yaml") {
		t.Errorf("TreePath() = %q", got)
	}
	if got := cfg.Address(); got != "localhost:8080" {
		t.Errorf("Address() = %q", got)
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"unknown field", `{"server": {"prot": 1}}`, 0},
		{"syntax", "{\n  \"server\": {\n    \"port\": 80,,\n  }\n}\n", 3},
		{"wrong type", "{\n  \"server\": {\"port\": \"80\"}\n}\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadFile(path)
			if code := errorCode(err); code != "D002" {
				t.Fatalf("got %v, want D002", err)
			}
			var e *errors.Error
			goerrors.As(err, &e)
			if tt.line == 0 {
				if e.Location != nil {
					t.Errorf("unexpected location %v", e.Location)
				}
				return
			}
			if e.Location == nil || e.Location.Line != tt.line || e.Location.File != path {
				t.Errorf("got location %v, want line %d", e.Location, tt.line)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		detail string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"namespace", func(c *Config) { c.Render.Namespace = "1x" }, "render.namespace"},
		{"root id", func(c *Config) { c.Render.RootID = "" }, "render.rootId"},
		{"runtime", func(c *Config) { c.Render.NoBulkReplace = map[string][]string{"netscape": {"ul"}} }, "netscape"},
		{"store", func(c *Config) { c.Snapshot.Store = "ftp" }, "snapshot.store"},
		{"bucket", func(c *Config) { c.Snapshot.Store = "s3" }, "snapshot.bucket"},
		{"concurrency", func(c *Config) { c.Snapshot.Concurrency = -1 }, "snapshot.concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if code := errorCode(err); code != "D003" {
				t.Fatalf("got %v, want D003", err)
			}
			var e *errors.Error
			goerrors.As(err, &e)
			if !strings.Contains(e.Detail, tt.detail) {
				t.Errorf("Detail = %q, want it to mention %q", e.Detail, tt.detail)
			}
		})
	}
}

func TestBulkReplaceTable(t *testing.T) {
	cfg := New()
	if cfg.BulkReplaceTable() != capability.BulkReplace {
		t.Error("expected the default table without overrides")
	}

	cfg.Render.NoBulkReplace = map[string][]string{"standard": {"UL"}}
	table := cfg.BulkReplaceTable()
	if table.Allowed("ul", capability.RuntimeStandard) {
		t.Error("configured denial ignored")
	}
	if table.Allowed("tr", capability.RuntimeLegacyIE) {
		t.Error("default denials lost")
	}
	if !capability.BulkReplace.Allowed("ul", capability.RuntimeStandard) {
		t.Error("default table modified")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}

	if _, err := FindProjectRoot(t.TempDir()); errorCode(err) != "D001" {
		t.Errorf("got %v, want D001", err)
	}
}

func TestPosition(t *testing.T) {
	data := []byte("ab\ncd\nef")
	tests := []struct {
		offset    int64
		line, col int
	}{
		{0, 1, 1},
		{2, 1, 2},
		{4, 2, 1},
		{8, 3, 2},
		{99, 3, 2},
	}
	for _, tt := range tests {
		line, col := position(data, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("position(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}
