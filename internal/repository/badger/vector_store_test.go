package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timshannon/badgerhold/v4"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

func openTestStore(t *testing.T, dir string) *badgerhold.Store {
	t.Helper()

	store, err := badgerhold.Open(DefaultOptions(dir))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func newTestVectorStore(t *testing.T) *VectorStore {
	t.Helper()
	return NewVectorStore(openTestStore(t, t.TempDir()))
}

func TestDefaultOptions_SynchronousWrites(t *testing.T) {
	opts := DefaultOptions(t.TempDir())

	// запись подтверждается только после попадания на диск
	assert.True(t, opts.SyncWrites)
	assert.Equal(t, opts.Dir, opts.ValueDir)
}

func TestVectorStore_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s := newTestVectorStore(t)

	require.NoError(t, s.GetOrCreateCollection(ctx, "text"))

	entries := []*domain.IndexEntry{
		domain.NewIndexEntry("1", []float32{1, 0, 0}, domain.Metadata{"name": "axe"}, "axe"),
		domain.NewIndexEntry("2", []float32{0, 1, 0}, domain.Metadata{"name": "bow"}, "bow"),
		domain.NewIndexEntry("3", []float32{0.9, 0.1, 0}, domain.Metadata{"name": "pick"}, "pick"),
	}
	for _, entry := range entries {
		require.NoError(t, s.Upsert(ctx, "text", entry))
	}

	hits, err := s.Query(ctx, "text", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "1", hits[0].ID)
	assert.Equal(t, "3", hits[1].ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Equal(t, "axe", hits[0].Metadata["name"])
}

func TestVectorStore_UpsertOverwritesSameID(t *testing.T) {
	ctx := context.Background()
	s := newTestVectorStore(t)

	require.NoError(t, s.Upsert(ctx, "text", domain.NewIndexEntry("1", []float32{1, 0}, domain.Metadata{"name": "old"}, "")))
	require.NoError(t, s.Upsert(ctx, "text", domain.NewIndexEntry("1", []float32{0, 1}, domain.Metadata{"name": "new"}, "")))

	hits, err := s.Query(ctx, "text", []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, "1", hits[0].ID)
	assert.Equal(t, "new", hits[0].Metadata["name"])
}

func TestVectorStore_DimensionFixedByFirstUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestVectorStore(t)

	require.NoError(t, s.Upsert(ctx, "text", domain.NewIndexEntry("1", []float32{1, 0, 0}, nil, "")))

	err := s.Upsert(ctx, "text", domain.NewIndexEntry("2", []float32{1, 0}, nil, ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrDimensionMismatch))

	_, err = s.Query(ctx, "text", []float32{1, 0}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrDimensionMismatch))

	// отклоненный upsert не меняет коллекцию
	hits, err := s.Query(ctx, "text", []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestVectorStore_QueryTieBreakByID(t *testing.T) {
	ctx := context.Background()
	s := newTestVectorStore(t)

	// одинаковое направление, одинаковый score
	require.NoError(t, s.Upsert(ctx, "text", domain.NewIndexEntry("b", []float32{1, 0}, nil, "")))
	require.NoError(t, s.Upsert(ctx, "text", domain.NewIndexEntry("a", []float32{2, 0}, nil, "")))
	require.NoError(t, s.Upsert(ctx, "text", domain.NewIndexEntry("c", []float32{3, 0}, nil, "")))

	hits, err := s.Query(ctx, "text", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, []string{"a", "b", "c"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestVectorStore_CollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestVectorStore(t)

	require.NoError(t, s.Upsert(ctx, "text", domain.NewIndexEntry("1", []float32{1, 0}, nil, "")))
	require.NoError(t, s.Upsert(ctx, "image", domain.NewIndexEntry("2", []float32{1, 0, 0}, nil, "")))

	hits, err := s.Query(ctx, "text", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].ID)
}

func TestVectorStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := openTestStore(t, dir)
	s := NewVectorStore(store)
	require.NoError(t, s.Upsert(ctx, "text", domain.NewIndexEntry("1", []float32{1, 0}, domain.Metadata{"name": "axe"}, "")))
	require.NoError(t, store.Close())

	reopened := NewVectorStore(openTestStore(t, dir))
	require.NoError(t, reopened.GetOrCreateCollection(ctx, "text"))

	hits, err := reopened.Query(ctx, "text", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "axe", hits[0].Metadata["name"])

	// размерность восстановлена из метаданных коллекции
	err = reopened.Upsert(ctx, "text", domain.NewIndexEntry("2", []float32{1, 2, 3}, nil, ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrDimensionMismatch))
}

func TestVectorStore_EmptyVectorRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestVectorStore(t)

	err := s.Upsert(ctx, "text", domain.NewIndexEntry("1", nil, nil, ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrEmptyVector))
}
