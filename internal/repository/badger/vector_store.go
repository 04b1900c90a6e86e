package badger

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/jimlawless/whereami"
	"github.com/timshannon/badgerhold/v4"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

// storedEntry запись коллекции в embedded-хранилище
type storedEntry struct {
	Key        string `badgerhold:"key"`
	Collection string `badgerhold:"index"`
	ID         string
	Vector     []float32
	Metadata   map[string]string
	Document   string
}

// collectionMeta фиксирует размерность коллекции по первой записи
type collectionMeta struct {
	Name      string `badgerhold:"key"`
	Dimension int
}

// VectorStore embedded-хранилище векторов на badgerhold. Не требует внешнего
// сервиса: данные живут в локальной директории и переживают перезапуск.
// Поиск ближайших соседей выполняется полным перебором коллекции, что
// достаточно для каталогов умеренного размера.
type VectorStore struct {
	store *badgerhold.Store

	mu   sync.Mutex
	dims map[string]int
}

func NewVectorStore(store *badgerhold.Store) *VectorStore {
	return &VectorStore{
		store: store,
		dims:  make(map[string]int),
	}
}

// DefaultOptions возвращает настройки встроенного хранилища по указанному пути.
// SyncWrites включен: Upsert возвращает управление только после того,
// как запись достигла диска, и подтвержденная запись переживает сбой процесса.
func DefaultOptions(path string) badgerhold.Options {
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.SyncWrites = true
	opts.Logger = nil
	return opts
}

// GetOrCreateCollection регистрирует коллекцию и восстанавливает ее
// размерность, если коллекция уже существовала
func (s *VectorStore) GetOrCreateCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dims[name]; ok {
		return nil
	}

	var meta collectionMeta
	err := s.store.Get(name, &meta)
	if errors.Is(err, badgerhold.ErrNotFound) {
		s.dims[name] = 0
		return nil
	}
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	s.dims[name] = meta.Dimension
	return nil
}

// Upsert сохраняет или перезаписывает запись. Повторная вставка с тем же ID
// обновляет вектор и метаданные, не создавая дубликата.
func (s *VectorStore) Upsert(_ context.Context, collection string, entry *domain.IndexEntry) error {
	if len(entry.Vector) == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrEmptyVector)
	}

	if err := s.ensureDimension(collection, len(entry.Vector)); err != nil {
		return err
	}

	record := storedEntry{
		Key:        collection + "/" + entry.ID,
		Collection: collection,
		ID:         entry.ID,
		Vector:     entry.Vector,
		Metadata:   entry.Metadata,
		Document:   entry.Document,
	}

	if err := s.store.Upsert(record.Key, record); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Query возвращает k ближайших записей по косинусной близости.
// При равенстве score записи упорядочиваются по возрастанию ID.
func (s *VectorStore) Query(_ context.Context, collection string, vector []float32, k int) ([]domain.QueryHit, error) {
	if len(vector) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrEmptyVector)
	}

	s.mu.Lock()
	dim := s.dims[collection]
	s.mu.Unlock()
	if dim > 0 && len(vector) != dim {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrDimensionMismatch)
	}

	var records []storedEntry
	err := s.store.Find(&records, badgerhold.Where("Collection").Eq(collection).Index("Collection"))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	hits := make([]domain.QueryHit, 0, len(records))
	for _, record := range records {
		hits = append(hits, domain.QueryHit{
			ID:       record.ID,
			Score:    cosineSimilarity(vector, record.Vector),
			Metadata: record.Metadata,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

// ensureDimension фиксирует размерность коллекции при первой записи и
// проверяет все последующие векторы
func (s *VectorStore) ensureDimension(collection string, dim int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known, ok := s.dims[collection]
	if !ok {
		var meta collectionMeta
		err := s.store.Get(collection, &meta)
		switch {
		case errors.Is(err, badgerhold.ErrNotFound):
			known = 0
		case err != nil:
			return e.Wrap(whereami.WhereAmI(), err)
		default:
			known = meta.Dimension
		}
	}

	if known > 0 {
		s.dims[collection] = known
		if known != dim {
			return e.Wrap(whereami.WhereAmI(), e.ErrDimensionMismatch)
		}
		return nil
	}

	meta := collectionMeta{Name: collection, Dimension: dim}
	if err := s.store.Upsert(collection, meta); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	s.dims[collection] = dim
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
