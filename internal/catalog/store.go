package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/anipix/anipix/internal/models"
)

var (
	// ErrNotFound is returned when no record has the requested title
	ErrNotFound = errors.New("image not found")
	// ErrDuplicateTitle is returned when two records share a title
	ErrDuplicateTitle = errors.New("duplicate image title")
)

// Store holds the immutable, ordered catalog of image records.
// It is safe for concurrent use; nothing mutates it after New returns.
type Store struct {
	records  []*models.ImageRecord
	byTitle  map[string]*models.ImageRecord
	position map[*models.ImageRecord]uint32

	// Tag index, built on first access
	indexOnce sync.Once
	tags      []string
	postings  map[string]*roaring.Bitmap // lowercased tag -> record positions
}

// New builds a store from records in load order. Titles must be non-empty
// and unique.
func New(records []models.ImageRecord) (*Store, error) {
	s := &Store{
		records:  make([]*models.ImageRecord, 0, len(records)),
		byTitle:  make(map[string]*models.ImageRecord, len(records)),
		position: make(map[*models.ImageRecord]uint32, len(records)),
	}

	for i := range records {
		r := records[i]
		if strings.TrimSpace(r.Title) == "" {
			return nil, fmt.Errorf("record %d (id %q) has an empty title", i, r.ID)
		}
		if _, exists := s.byTitle[r.Title]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, r.Title)
		}
		r.Tags = slices.Clone(r.Tags)

		s.position[&r] = uint32(len(s.records))
		s.records = append(s.records, &r)
		s.byTitle[r.Title] = &r
	}

	return s, nil
}

// Len returns the number of records in the catalog
func (s *Store) Len() int {
	return len(s.records)
}

// At returns the record at position i in load order
func (s *Store) At(i int) *models.ImageRecord {
	return s.records[i]
}

// All returns the full catalog in load order. The returned slice is owned by
// the caller; the records it points to are shared and must not be modified.
func (s *Store) All() []*models.ImageRecord {
	return slices.Clone(s.records)
}

// ByTitle looks up a record by its exact title
func (s *Store) ByTitle(title string) (*models.ImageRecord, error) {
	r, ok := s.byTitle[title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return r, nil
}

// Position reports where r sits in load order, if r belongs to this store
func (s *Store) Position(r *models.ImageRecord) (uint32, bool) {
	pos, ok := s.position[r]
	return pos, ok
}

// Tags returns every distinct tag in the catalog, in order of first
// appearance.
func (s *Store) Tags() []string {
	s.buildIndex()
	return slices.Clone(s.tags)
}

// TagPostings returns the positions of all records carrying tag, compared
// case-insensitively. The result is a copy and may be modified.
func (s *Store) TagPostings(tag string) *roaring.Bitmap {
	s.buildIndex()
	bm, ok := s.postings[strings.ToLower(tag)]
	if !ok {
		return roaring.New()
	}
	return bm.Clone()
}

func (s *Store) buildIndex() {
	s.indexOnce.Do(func() {
		seen := make(map[string]struct{})
		s.postings = make(map[string]*roaring.Bitmap)

		for pos, r := range s.records {
			for _, tag := range r.Tags {
				if _, ok := seen[tag]; !ok {
					seen[tag] = struct{}{}
					s.tags = append(s.tags, tag)
				}

				key := strings.ToLower(tag)
				bm, ok := s.postings[key]
				if !ok {
					bm = roaring.New()
					s.postings[key] = bm
				}
				bm.Add(uint32(pos))
			}
		}
	})
}

// Related returns up to limit other records sharing at least one tag with r,
// in catalog order. Tags are compared exactly.
func (s *Store) Related(r *models.ImageRecord, limit int) []*models.ImageRecord {
	if limit <= 0 || len(r.Tags) == 0 {
		return nil
	}

	related := make([]*models.ImageRecord, 0, limit)
	for _, candidate := range s.records {
		if candidate == r || (r.ID != "" && candidate.ID == r.ID) {
			continue
		}
		if sharesTag(candidate.Tags, r.Tags) {
			related = append(related, candidate)
			if len(related) == limit {
				break
			}
		}
	}
	return related
}

func sharesTag(a, b []string) bool {
	for _, tag := range a {
		if slices.Contains(b, tag) {
			return true
		}
	}
	return false
}
