package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashfaaq98/case-map-console/internal/catalog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleCase(id, title, status string, states ...string) catalog.Case {
	return catalog.Case{
		ID:     id,
		URL:    "https://www.achp.gov/cases/" + id,
		Title:  title,
		Body:   "<p>" + title + "</p>",
		Agency: "National Park Service",
		POC:    catalog.PointOfContact{Name: "Ann Lee", Title: "Historian", Email: "ann@example.gov", Phone: "555-0100"},
		States: states,
		Status: status,
	}
}

func TestNewStore(t *testing.T) {
	store := newTestStore(t)

	var count int
	err := store.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('cases', 'ingest_log')").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cases.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, path)
}

func TestSaveAndGetCase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := sampleCase("10", "Lighthouse Restoration", "Open", "Maine", "New Hampshire")
	require.NoError(t, store.SaveCase(ctx, c))

	got, err := store.GetCase(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	c.Title = "Lighthouse Restoration Phase II"
	c.States = nil
	require.NoError(t, store.SaveCase(ctx, c))
	got, err = store.GetCase(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, "Lighthouse Restoration Phase II", got.Title)
	assert.Empty(t, got.States)

	_, err = store.GetCase(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveCaseValidates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	assert.Error(t, store.SaveCase(ctx, catalog.Case{Title: "No ID"}))
	assert.Error(t, store.SaveCase(ctx, catalog.Case{ID: "1"}))
}

func TestSaveCasesIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.SaveCases(ctx, []catalog.Case{
		sampleCase("1", "Good", "Open", "Ohio"),
		{ID: "2"},
	})
	require.Error(t, err)

	all, err := store.ListCases(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListCasesFiltersStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCases(ctx, []catalog.Case{
		sampleCase("1", "Canal Lock", "Open", "Ohio"),
		sampleCase("2", "Armory", "Closed", "Texas"),
		sampleCase("3", "Bridge", "reopened", "Utah"),
	}))

	cs, err := store.ListCases(ctx, DefaultStatuses)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "Bridge", cs[0].Title)
	assert.Equal(t, "Canal Lock", cs[1].Title)

	all, err := store.ListCases(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Open": 1, "Closed": 1, "reopened": 1}, counts)
}

func TestDeleteAndReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCase(ctx, sampleCase("1", "A", "Open")))
	require.NoError(t, store.SaveCase(ctx, sampleCase("2", "B", "Open")))
	require.NoError(t, store.AddIngestEntry(ctx, IngestEntry{Source: "cases.json", Format: "json", Cases: 2}))

	require.NoError(t, store.DeleteCase(ctx, "1"))
	assert.ErrorIs(t, store.DeleteCase(ctx, "1"), ErrNotFound)

	require.NoError(t, store.Reset(ctx))
	all, err := store.ListCases(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	entries, err := store.GetIngestEntries(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIngestLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, store.AddIngestEntry(ctx, IngestEntry{Source: "a.json", Format: "json", Cases: 3, Timestamp: base}))
	require.NoError(t, store.AddIngestEntry(ctx, IngestEntry{Source: "b.yaml", Format: "yaml", Skipped: 1, Error: "bad row", Timestamp: base.Add(time.Second)}))

	entries, err := store.GetIngestEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b.yaml", entries[0].Source)
	assert.Equal(t, "bad row", entries[0].Error)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, 3, entries[1].Cases)

	entries, err = store.GetIngestEntries(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
