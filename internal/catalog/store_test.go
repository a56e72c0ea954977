package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/anipix/anipix/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.ImageRecord {
	return []models.ImageRecord{
		{ID: "1", Title: "a", Tags: []string{"sky"}, AuthorID: "100", Src: "https://i0.hdslb.com/a.png"},
		{ID: "2", Title: "b", Tags: []string{"sea"}, AuthorID: "200", Src: "https://i0.hdslb.com/b.png"},
		{ID: "3", Title: "c", Tags: []string{"sky", "Sea"}, AuthorID: "100", Src: "https://i0.hdslb.com/c.png"},
	}
}

func titles(records []*models.ImageRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

func TestNewRejectsDuplicateTitles(t *testing.T) {
	records := sampleRecords()
	records[1].Title = "a"

	_, err := New(records)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateTitle))
}

func TestNewRejectsEmptyTitle(t *testing.T) {
	records := sampleRecords()
	records[2].Title = "  "

	_, err := New(records)
	assert.Error(t, err)
}

func TestAllPreservesLoadOrder(t *testing.T) {
	store, err := New(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, titles(store.All()))

	// Mutating the returned slice must not affect the store
	all := store.All()
	all[0] = all[2]
	assert.Equal(t, []string{"a", "b", "c"}, titles(store.All()))
}

func TestByTitle(t *testing.T) {
	store, err := New(sampleRecords())
	require.NoError(t, err)

	r, err := store.ByTitle("b")
	require.NoError(t, err)
	assert.Equal(t, "2", r.ID)

	_, err = store.ByTitle("B")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTags(t *testing.T) {
	store, err := New(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, []string{"sky", "sea", "Sea"}, store.Tags())
	// Memoized index yields the same enumeration
	assert.Equal(t, store.Tags(), store.Tags())
}

func TestTagPostingsIsCaseInsensitive(t *testing.T) {
	store, err := New(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, []uint32{1, 2}, store.TagPostings("SEA").ToArray())
	assert.True(t, store.TagPostings("unknown").IsEmpty())

	// Returned bitmap is a copy
	bm := store.TagPostings("sky")
	bm.Add(1)
	assert.Equal(t, []uint32{0, 2}, store.TagPostings("sky").ToArray())
}

func TestRelated(t *testing.T) {
	store, err := New(sampleRecords())
	require.NoError(t, err)

	a, _ := store.ByTitle("a")
	assert.Equal(t, []string{"c"}, titles(store.Related(a, 4)))

	c, _ := store.ByTitle("c")
	// "Sea" does not match "sea": related images compare tags exactly
	assert.Equal(t, []string{"a"}, titles(store.Related(c, 4)))

	assert.Empty(t, store.Related(a, 0))
}

func TestExportRoundTrip(t *testing.T) {
	store, err := New(sampleRecords())
	require.NoError(t, err)

	for _, name := range []string{"catalog.json", "catalog.jsonl", "catalog.yaml", "catalog.parquet"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, store.Export(path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, titles(store.All()), titles(loaded.All()))

			c, err := loaded.ByTitle("c")
			require.NoError(t, err)
			assert.Equal(t, []string{"sky", "Sea"}, c.Tags)
			assert.Equal(t, "100", c.AuthorID)
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := NewLoader("catalog.csv").Load()
	assert.Error(t, err)

	store, err := New(sampleRecords())
	require.NoError(t, err)
	assert.Error(t, store.Export(filepath.Join(t.TempDir(), "catalog.csv")))
}
