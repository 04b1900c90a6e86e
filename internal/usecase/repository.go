package usecase

import (
	"context"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
)

type CatalogRepository interface {
	ListItems(ctx context.Context) ([]domain.CatalogItem, error)
}

// VectorStore — контракт векторного хранилища.
// Коллекция создается лениво (get-or-create) и никогда не удаляется пайплайном;
// размерность коллекции фиксируется первым успешным Upsert.
type VectorStore interface {
	// GetOrCreateCollection идемпотентна: повторные вызовы с тем же именем
	// возвращают ту же логическую коллекцию.
	GetOrCreateCollection(ctx context.Context, name string) error
	// Upsert перезаписывает запись при существующем ID, иначе вставляет.
	// Возвращает e.ErrDimensionMismatch при расхождении размерности вектора
	// с размерностью коллекции и e.ErrStoreUnavailable при сбое персистентности.
	Upsert(ctx context.Context, collection string, entry *domain.IndexEntry) error
	// Query возвращает до k ближайших записей по косинусной близости,
	// по убыванию близости; при равных близостях — по возрастанию ID.
	Query(ctx context.Context, collection string, vector []float32, k int) ([]domain.QueryHit, error)
}

type IndexRunRepository interface {
	Create(ctx context.Context, run *domain.IndexRun) error
	Get(ctx context.Context, id string) (*domain.IndexRun, error)
	List(ctx context.Context, limit int) ([]*domain.IndexRun, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

// FingerprintRepository хранит отпечатки содержимого проиндексированных
// элементов для пропуска неизменившихся записей при повторных проходах.
type FingerprintRepository interface {
	Get(ctx context.Context, modality domain.Modality, id string) (string, error)
	Set(ctx context.Context, modality domain.Modality, id string, fingerprint string) error
}
