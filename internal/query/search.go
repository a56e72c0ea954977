// Package query implements search, tag filtering and pagination over a
// catalog. Every function here is pure: results depend only on the store
// and the arguments.
package query

import (
	"strings"

	"github.com/anipix/anipix/internal/catalog"
	"github.com/anipix/anipix/internal/models"
)

// Engine runs queries against a catalog store
type Engine struct {
	store *catalog.Store
}

// NewEngine creates a query engine over store
func NewEngine(store *catalog.Store) *Engine {
	return &Engine{store: store}
}

// Store returns the underlying catalog
func (e *Engine) Store() *catalog.Store {
	return e.store
}

// Search returns every record matching query, in catalog order. An empty or
// whitespace-only query matches the whole catalog.
func (e *Engine) Search(query string) []*models.ImageRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return e.store.All()
	}

	results := make([]*models.ImageRecord, 0)
	for i := 0; i < e.store.Len(); i++ {
		r := e.store.At(i)
		if Matches(r, q) {
			results = append(results, r)
		}
	}
	return results
}

// Matches reports whether r matches a normalized (trimmed, lowercased) query.
// Title and description match on substring; tags and author match only on
// case-insensitive equality.
func Matches(r *models.ImageRecord, q string) bool {
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.ToLower(tag) == q {
			return true
		}
	}
	return strings.ToLower(r.AuthorID) == q
}

// FilterByTag keeps the records of results carrying tag (case-insensitive).
// An empty tag returns results unchanged.
func (e *Engine) FilterByTag(results []*models.ImageRecord, tag string) []*models.ImageRecord {
	if tag == "" {
		return results
	}

	postings := e.store.TagPostings(tag)
	filtered := make([]*models.ImageRecord, 0)
	for _, r := range results {
		if pos, ok := e.store.Position(r); ok {
			if postings.Contains(pos) {
				filtered = append(filtered, r)
			}
			continue
		}
		// Not one of ours; fall back to comparing tags directly
		if HasTag(r, tag) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// HasTag reports whether r carries tag, compared case-insensitively
func HasTag(r *models.ImageRecord, tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
