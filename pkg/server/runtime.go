package server

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"

	clientdist "github.com/vango-dev/domsync/client/dist"
)

// runtimeScript returns the client runtime aliased to namespace, and its
// ETag.
func runtimeScript(namespace string) ([]byte, string) {
	js := clientdist.RuntimeJS
	if namespace != "V" {
		js = append(append([]byte(nil), js...), "window."+namespace+"=window.V;\n"...)
	}
	sum := sha256.Sum256(js)
	return js, fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:16]))
}

func (s *Server) serveRuntime(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", s.runtimeETag)
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")

	if etagMatches(r.Header.Get("If-None-Match"), s.runtimeETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Write(s.runtimeJS)
}

func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	for _, part := range strings.Split(ifNoneMatch, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == etag || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
