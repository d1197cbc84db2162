package config

import (
	"bytes"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/capability"
)

const (
	// FileName is the name of the configuration file.
	FileName = "domsync.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the client runtime object scripts call into.
	DefaultNamespace = "V"

	// DefaultRootID is the id of the element a page renders into.
	DefaultRootID = "app"

	// DefaultIDPrefix starts generated element ids.
	DefaultIDPrefix = "d"

	// DefaultRuntimeScript is the URL of the client runtime.
	DefaultRuntimeScript = "/_domsync/runtime.js"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultSnapshotPath is the bbolt file snapshots are written to.
	DefaultSnapshotPath = "snapshots.db"

	// DefaultSnapshotConcurrency bounds parallel snapshot uploads.
	DefaultSnapshotConcurrency = 4
)

// Config represents the complete domsync.json configuration.
type Config struct {
	// Name is the project name, used as the page title fallback.
	Name string `json:"name,omitempty"`

	// Server contains page and sync server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Render contains patch builder configuration.
	Render RenderConfig `json:"render,omitempty"`

	// Snapshot contains crawler snapshot store configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Tree is the tree file served at "/".
	Tree string `json:"tree,omitempty"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Lang is the page language; right-to-left languages mirror layout.
	Lang string `json:"lang,omitempty"`

	// RuntimeScript is the URL of the client runtime script.
	RuntimeScript string `json:"runtimeScript,omitempty"`
}

// RenderConfig contains patch builder settings.
type RenderConfig struct {
	// Namespace is the client runtime object, "V" by default.
	Namespace string `json:"namespace,omitempty"`

	// RootID is the id of the page's root element.
	RootID string `json:"rootId,omitempty"`

	// IDPrefix starts generated element ids.
	IDPrefix string `json:"idPrefix,omitempty"`

	// NoBulkReplace lists, per runtime name, extra tags whose children
	// must not be written as one markup string.
	NoBulkReplace map[string][]string `json:"noBulkReplace,omitempty"`
}

// SnapshotConfig contains crawler snapshot store settings.
type SnapshotConfig struct {
	// Store is "bolt" or "s3".
	Store string `json:"store,omitempty"`

	// Path is the bbolt database file.
	Path string `json:"path,omitempty"`

	// Bucket is the S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every S3 key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the S3 region.
	Region string `json:"region,omitempty"`

	// Concurrency bounds parallel writes.
	Concurrency int `json:"concurrency,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled serves metrics on Path.
	Enabled bool `json:"enabled"`

	// Path is the metrics endpoint.
	Path string `json:"path,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          DefaultHost,
			Port:          DefaultPort,
			Lang:          "en",
			RuntimeScript: DefaultRuntimeScript,
		},
		Render: RenderConfig{
			Namespace: DefaultNamespace,
			RootID:    DefaultRootID,
			IDPrefix:  DefaultIDPrefix,
		},
		Snapshot: SnapshotConfig{
			Store:       "bolt",
			Path:        DefaultSnapshotPath,
			Concurrency: DefaultSnapshotConcurrency,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
	}
}

// Load reads domsync.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads configuration from the specified file path. Unknown
// fields are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("D001").
				WithDetail("No " + FileName + " found at " + path).
				WithSuggestion("Create " + FileName + " or run without one to use the defaults")
		}
		return nil, errors.New("D002").Wrap(err)
	}

	cfg := New()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		e := errors.New("D002").Wrap(err).WithSuggestion("Check that " + FileName + " is valid JSON")
		if offset, ok := errorOffset(err); ok {
			line, col := position(data, offset)
			e = e.WithLocation(path, line, col)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// errorOffset returns the input offset a decoding error refers to.
func errorOffset(err error) (int64, bool) {
	var syntax *json.SyntaxError
	if goerrors.As(err, &syntax) {
		return syntax.Offset, true
	}
	var typ *json.UnmarshalTypeError
	if goerrors.As(err, &typ) {
		return typ.Offset, true
	}
	return 0, false
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return line, col
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Title == "" {
		c.Server.Title = c.Name
	}
	if c.Server.RuntimeScript == "" {
		c.Server.RuntimeScript = DefaultRuntimeScript
	}
	if c.Render.Namespace == "" {
		c.Render.Namespace = DefaultNamespace
	}
	if c.Render.RootID == "" {
		c.Render.RootID = DefaultRootID
	}
	if c.Render.IDPrefix == "" {
		c.Render.IDPrefix = DefaultIDPrefix
	}
	if c.Snapshot.Store == "" {
		c.Snapshot.Store = "bolt"
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = DefaultSnapshotPath
	}
	if c.Snapshot.Concurrency == 0 {
		c.Snapshot.Concurrency = DefaultSnapshotConcurrency
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(detail, suggestion string) error {
		return errors.New("D003").WithDetail(detail).WithSuggestion(suggestion)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid(fmt.Sprintf("server.port %d is out of range", c.Server.Port),
			"Use a port between 0 and 65535")
	}
	if !identifier.MatchString(c.Render.Namespace) {
		return invalid(fmt.Sprintf("render.namespace %q is not a JavaScript identifier", c.Render.Namespace),
			`Use a name such as "V" or "App"`)
	}
	if c.Render.RootID == "" {
		return invalid("render.rootId is empty", `Set render.rootId, e.g. "app"`)
	}
	for name := range c.Render.NoBulkReplace {
		if _, ok := capability.ParseRuntime(name); !ok {
			return invalid(fmt.Sprintf("render.noBulkReplace names unknown runtime %q", name),
				`Use "standard", "legacy-ie" or "khtml"`)
		}
	}
	switch c.Snapshot.Store {
	case "bolt":
		if c.Snapshot.Path == "" {
			return invalid("snapshot.path is empty", "Set the bbolt database file")
		}
	case "s3":
		if c.Snapshot.Bucket == "" {
			return invalid("snapshot.bucket is required for the s3 store", "Set snapshot.bucket")
		}
	default:
		return invalid(fmt.Sprintf("snapshot.store %q is not supported", c.Snapshot.Store),
			`Use "bolt" or "s3"`)
	}
	if c.Snapshot.Concurrency < 1 {
		return invalid("snapshot.concurrency must be at least 1", "Remove the field to use the default")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// resolve makes path absolute relative to the config directory.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// TreePath returns the absolute path to the served tree file.
func (c *Config) TreePath() string {
	return c.resolve(c.Server.Tree)
}

// SnapshotPath returns the absolute path to the bbolt snapshot file.
func (c *Config) SnapshotPath() string {
	return c.resolve(c.Snapshot.Path)
}

// BulkReplaceTable returns the default bulk-replace table extended with
// the configured denials. Call Validate first.
func (c *Config) BulkReplaceTable() *capability.Table {
	t := capability.BulkReplace
	if len(c.Render.NoBulkReplace) == 0 {
		return t
	}
	t = t.Clone()
	for name, tags := range c.Render.NoBulkReplace {
		if rt, ok := capability.ParseRuntime(name); ok {
			t.Deny(rt, tags...)
		}
	}
	return t
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the one holding
// domsync.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("D001").
				WithDetail("No " + FileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest domsync.json above the working
// directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		cfg := New()
		cfg.applyDefaults()
		return cfg, nil
	}
	return Load(root)
}
