package snapshot

import (
	goerrors "errors"
	"log/slog"
	"net/http"
	"strconv"
)

// Handler serves stored snapshots by request path. Missing pages are 404.
func Handler(store Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap, err := store.Get(r.Context(), r.URL.Path)
		if goerrors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Default().Error("snapshot read failed", "path", r.URL.Path, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		contentType := snap.ContentType
		if contentType == "" {
			contentType = DefaultContentType
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(snap.HTML)))
		if !snap.CreatedAt.IsZero() {
			w.Header().Set("Last-Modified", snap.CreatedAt.UTC().Format(http.TimeFormat))
		}
		if r.Method == http.MethodHead {
			return
		}
		w.Write(snap.HTML)
	})
}
