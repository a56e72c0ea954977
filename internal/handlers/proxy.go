package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/anipix/anipix/internal/images"
)

// CacheControl is sent with every proxied image. Assets are immutable by URL.
const CacheControl = "public, max-age=86400"

// HandleProxy fetches ?url= from the external host and streams it back
func (h *Handler) HandleProxy(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		h.metrics.ObserveProxy("bad_request", 0)
		h.writeError(w, "Missing url", http.StatusBadRequest)
		return
	}

	start := time.Now()
	img, err := h.fetcher.Fetch(r.Context(), imageURL)
	elapsed := time.Since(start)
	if err != nil {
		var upErr *images.UpstreamError
		switch {
		case errors.Is(err, images.ErrBadRequest):
			h.metrics.ObserveProxy("bad_request", 0)
			h.writeError(w, "Invalid url", http.StatusBadRequest)
		case errors.As(err, &upErr):
			h.metrics.ObserveProxy("upstream_error", elapsed)
			slog.Warn("Upstream returned error status", "url", imageURL, "status", upErr.StatusCode)
			h.writeError(w, "Fetch failed", upErr.StatusCode)
		default:
			h.metrics.ObserveProxy("unavailable", elapsed)
			slog.Error("Upstream unavailable", "url", imageURL, "err", err)
			h.writeError(w, "Error", http.StatusInternalServerError)
		}
		return
	}

	h.metrics.ObserveProxy("ok", elapsed)

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", CacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(img.Data); err != nil {
		slog.Debug("Client went away during proxy response", "url", imageURL, "err", err)
	}
}
