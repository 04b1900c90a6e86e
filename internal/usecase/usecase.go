package usecase

import (
	"context"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
)

type IndexerUC interface {
	RunTextPass(ctx context.Context) (*domain.IndexRun, error)
	RunImagePass(ctx context.Context) (*domain.IndexRun, error)
	// StartPass запускает проход в фоне и возвращает идентификатор запуска.
	StartPass(ctx context.Context, modality domain.Modality) (string, error)
	GetRun(ctx context.Context, id string) (*domain.IndexRun, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.IndexRun, error)
}
