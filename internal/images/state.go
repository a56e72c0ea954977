package images

import (
	"sync"

	"github.com/anipix/anipix/internal/models"
)

// LoadState is the lifecycle of a rendered image
type LoadState int

const (
	Loading LoadState = iota
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ImageLoad tracks one rendered image. It requests the asset through the
// proxy until the first error, after which it shows the placeholder for the
// rest of its lifetime. Failed is terminal.
type ImageLoad struct {
	mu       sync.Mutex
	state    LoadState
	proxySrc string
}

// NewImageLoad starts tracking the external asset src
func NewImageLoad(src string) *ImageLoad {
	return &ImageLoad{
		state:    Loading,
		proxySrc: models.ProxyURL(src),
	}
}

// State returns the current state
func (l *ImageLoad) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Src returns the URL the image should currently display
func (l *ImageLoad) Src() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Failed {
		return models.PlaceholderPath
	}
	return l.proxySrc
}

// OnLoad records a successful load. It has no effect once failed.
func (l *ImageLoad) OnLoad() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Loading {
		l.state = Loaded
	}
}

// OnError records a failed load and switches to the placeholder for good
func (l *ImageLoad) OnError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Failed
}
