package handlers

import (
	"io/fs"
	"net/http"
	"strings"
)

// StaticHandler serves the embedded CSS and JS.
type StaticHandler struct {
	fileServer http.Handler
}

// NewStaticHandler serves files from assets, usually web.Static(), below
// /static/.
func NewStaticHandler(assets fs.FS) *StaticHandler {
	return &StaticHandler{
		fileServer: http.StripPrefix("/static/", http.FileServer(http.FS(assets))),
	}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Directory listings are not served.
	if strings.HasSuffix(r.URL.Path, "/") {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")

	path := r.URL.Path
	if strings.HasSuffix(path, ".js") {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	} else if strings.HasSuffix(path, ".css") {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
	}

	h.fileServer.ServeHTTP(w, r)
}
