package snapshot

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no snapshot exists for a path.
var ErrNotFound = errors.New("snapshot: not found")

// DefaultContentType is the content type of rendered pages.
const DefaultContentType = "text/html; charset=utf-8"

// Snapshot is the rendered document of one page.
type Snapshot struct {
	// Path is the URL path the page is served at, e.g. "/about".
	Path string

	// HTML is the complete document.
	HTML []byte

	// ContentType defaults to DefaultContentType.
	ContentType string

	// CreatedAt is when the page was rendered.
	CreatedAt time.Time
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Put stores s, replacing any snapshot at the same path.
	Put(ctx context.Context, s *Snapshot) error

	// Get returns the snapshot stored for path, or ErrNotFound.
	Get(ctx context.Context, path string) (*Snapshot, error)

	// Close releases the store.
	Close() error
}

// CleanPath normalizes a URL path to the key snapshots are stored under:
// a leading slash, no trailing slash except for the root, no query.
func CleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(path, "/")
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return path
}
