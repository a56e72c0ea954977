// Package discovery implements random browsing with a short history of
// previously shown images.
package discovery

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/anipix/anipix/internal/catalog"
	"github.com/anipix/anipix/internal/models"
)

// DefaultHistorySize is the number of previously shown images a session keeps
const DefaultHistorySize = 5

// ErrEmptyCatalog is returned when there is nothing to pick from
var ErrEmptyCatalog = errors.New("catalog is empty")

// Picker returns a uniformly random index in [0, n)
type Picker func(n int) int

// View is a consistent snapshot of a session
type View struct {
	Current *models.ImageRecord   `json:"current"`
	History []*models.ImageRecord `json:"history"`
}

// Session tracks the image currently shown and the ones shown before it,
// most recent first. It is safe for concurrent use.
type Session struct {
	store   *catalog.Store
	pick    Picker
	maxSize int

	mu      sync.Mutex
	current *models.ImageRecord
	history []*models.ImageRecord
}

// Option configures a Session
type Option func(*Session)

// WithPicker replaces the random source, mainly for tests
func WithPicker(p Picker) Option {
	return func(s *Session) {
		s.pick = p
	}
}

// WithHistorySize changes the history cap
func WithHistorySize(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxSize = n
		}
	}
}

// NewSession starts a session with nothing shown yet
func NewSession(store *catalog.Store, opts ...Option) *Session {
	s := &Session{
		store:   store,
		pick:    rand.IntN,
		maxSize: DefaultHistorySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Randomize picks a new image. The previous one, if any, moves to the front
// of the history and the oldest entries beyond the cap are dropped. Repeats
// are possible.
func (s *Session) Randomize() (*models.ImageRecord, error) {
	n := s.store.Len()
	if n == 0 {
		return nil, ErrEmptyCatalog
	}
	next := s.store.At(s.pick(n))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.history = slices.Insert(s.history, 0, s.current)
		if len(s.history) > s.maxSize {
			s.history = s.history[:s.maxSize]
		}
	}
	s.current = next

	return next, nil
}

// CurrentView returns the current image and history as one snapshot
func (s *Session) CurrentView() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		Current: s.current,
		History: slices.Clone(s.history),
	}
}
