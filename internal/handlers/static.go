package handlers

import (
	"log/slog"
	"net/http"
)

// placeholderSVG is shown in place of any image that failed to load
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="300" viewBox="0 0 400 300">
<rect width="400" height="300" fill="#1f2937"/>
<path d="M150 190l35-45 25 30 20-25 40 40z" fill="#4b5563"/>
<circle cx="170" cy="120" r="14" fill="#4b5563"/>
</svg>
`

// HandlePlaceholder serves the fallback image
func (h *Handler) HandlePlaceholder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", CacheControl)
	if _, err := w.Write([]byte(placeholderSVG)); err != nil {
		slog.Error("Unable to write placeholder", "err", err)
	}
}

// HandleHealthcheck reports liveness
func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}
