package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// StaticHandler serves assets under the static directory with a cache
// header. Unlike a SPA server it never falls back to an index page; a
// missing asset is a plain 404.
type StaticHandler struct {
	staticDir   string
	cacheMaxAge int
}

func NewStaticHandler(staticDir string, cacheMaxAge int) *StaticHandler {
	return &StaticHandler{staticDir: staticDir, cacheMaxAge: cacheMaxAge}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" || strings.Contains(path, "..") {
		http.NotFound(w, r)
		return
	}

	filePath := filepath.Join(h.staticDir, filepath.Clean("/"+path))

	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	if h.cacheMaxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.cacheMaxAge))
	}
	http.ServeFile(w, r, filePath)
}
