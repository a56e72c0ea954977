package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anipix/anipix/internal/catalog"
	"github.com/anipix/anipix/internal/discovery"
	"github.com/anipix/anipix/internal/images"
	"github.com/anipix/anipix/internal/metrics"
	"github.com/anipix/anipix/internal/query"
	"github.com/anipix/anipix/internal/storage"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler serves the browsing API and the image proxy
type Handler struct {
	engine   *query.Engine
	fetcher  *images.Fetcher
	sessions *storage.SessionStore
	metrics  *metrics.Metrics
}

// Options wires a Handler
type Options struct {
	Store       *catalog.Store
	Fetcher     *images.Fetcher
	HistorySize int
}

// New creates a handler over a loaded catalog
func New(opts Options) *Handler {
	if opts.Fetcher == nil {
		opts.Fetcher = images.NewFetcher(images.DefaultConfig())
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = discovery.DefaultHistorySize
	}

	store := opts.Store
	historySize := opts.HistorySize
	sessions := storage.New(func() *discovery.Session {
		return discovery.NewSession(store, discovery.WithHistorySize(historySize))
	})

	return &Handler{
		engine:   query.NewEngine(store),
		fetcher:  opts.Fetcher,
		sessions: sessions,
		metrics: metrics.New(func() float64 {
			return float64(sessions.Len())
		}),
	}
}

// Sessions exposes the discovery session registry
func (h *Handler) Sessions() *storage.SessionStore {
	return h.sessions
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Debug(message, "status", code)
	}
	http.Error(w, message, code)
}

// errorStatus maps domain errors to HTTP status codes
func errorStatus(err error) int {
	var upErr *images.UpstreamError
	switch {
	case errors.As(err, &upErr):
		return upErr.StatusCode
	case errors.Is(err, images.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, discovery.ErrEmptyCatalog):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs one line per request with slog
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		slog.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
