package handlers

import (
	"log/slog"
	"net/http"

	"github.com/anipix/anipix/internal/discovery"
	"github.com/anipix/anipix/internal/models"
)

// SessionCookie carries the discovery session ID
const SessionCookie = "anipix_session"

// RandomResponse is the state of a discovery session
type RandomResponse struct {
	Current *models.ImageView  `json:"current"`
	History []models.ImageView `json:"history"`
}

func newRandomResponse(v discovery.View) RandomResponse {
	resp := RandomResponse{
		History: models.NewImageViews(v.History),
	}
	if v.Current != nil {
		current := models.NewImageView(v.Current)
		resp.Current = &current
	}
	return resp
}

// session returns the caller's discovery session, starting one when the
// cookie is missing or stale. A new session shows its first image right
// away, like opening the random page.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (s *discovery.Session, created bool, err error) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if s, ok := h.sessions.Get(c.Value); ok {
			return s, false, nil
		}
	}

	if h.engine.Store().Len() == 0 {
		h.metrics.ObserveDraw("empty")
		return nil, false, discovery.ErrEmptyCatalog
	}

	id, s := h.sessions.Create()
	slog.Debug("Discovery session started", "session_id", id)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if _, err := s.Randomize(); err != nil {
		h.metrics.ObserveDraw("empty")
		return s, true, err
	}
	h.metrics.ObserveDraw("ok")
	return s, true, nil
}

// HandleRandomView returns the current image and history without drawing
func (h *Handler) HandleRandomView(w http.ResponseWriter, r *http.Request) {
	s, _, err := h.session(w, r)
	if err != nil {
		h.writeError(w, "No images to choose from", errorStatus(err))
		return
	}
	h.writeJSON(w, newRandomResponse(s.CurrentView()))
}

// HandleRandomize draws a new random image for the caller's session
func (h *Handler) HandleRandomize(w http.ResponseWriter, r *http.Request) {
	s, created, err := h.session(w, r)
	if err != nil {
		h.writeError(w, "No images to choose from", errorStatus(err))
		return
	}
	if created {
		// The first image was drawn when the session started
		h.writeJSON(w, newRandomResponse(s.CurrentView()))
		return
	}

	if _, err := s.Randomize(); err != nil {
		h.metrics.ObserveDraw("empty")
		h.writeError(w, "No images to choose from", errorStatus(err))
		return
	}
	h.metrics.ObserveDraw("ok")

	h.writeJSON(w, newRandomResponse(s.CurrentView()))
}
