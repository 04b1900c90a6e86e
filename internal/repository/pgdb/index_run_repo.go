package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
	"github.com/DRSN-tech/indexer-backend/pkg/tr"
)

// IndexRunRepo реализует репозиторий запусков индексации поверх PostgreSQL.
type IndexRunRepo struct {
	pool *pgxpool.Pool
	conv converter.IndexRunConverter
}

func NewIndexRunRepo(pool *pgxpool.Pool, conv converter.IndexRunConverter) *IndexRunRepo {
	return &IndexRunRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет завершенный запуск. Вызывается внутри транзакции вместе
// с записью outbox-события.
func (r *IndexRunRepo) Create(ctx context.Context, run *domain.IndexRun) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := r.conv.ToModel(run)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO index_runs (
			id, modality, state,
			attempted, succeeded, failed, skipped,
			failures, error, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.Exec(ctx, query,
		model.ID, model.Modality, model.State,
		model.Attempted, model.Succeeded, model.Failed, model.Skipped,
		model.Failures, model.Error, model.StartedAt, model.FinishedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Get возвращает запуск по id или e.ErrRunNotFound.
func (r *IndexRunRepo) Get(ctx context.Context, id string) (*domain.IndexRun, error) {
	query := `
		SELECT id, modality, state,
		       attempted, succeeded, failed, skipped,
		       failures, error, started_at, finished_at
		FROM index_runs
		WHERE id = $1
	`

	var model converter.IndexRunModel
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&model.ID, &model.Modality, &model.State,
		&model.Attempted, &model.Succeeded, &model.Failed, &model.Skipped,
		&model.Failures, &model.Error, &model.StartedAt, &model.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrRunNotFound)
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	run, err := r.conv.ToEntity(&model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return run, nil
}

// List возвращает последние запуски, от новых к старым.
func (r *IndexRunRepo) List(ctx context.Context, limit int) ([]*domain.IndexRun, error) {
	query := `
		SELECT id, modality, state,
		       attempted, succeeded, failed, skipped,
		       failures, error, started_at, finished_at
		FROM index_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	runs := make([]*domain.IndexRun, 0)
	for rows.Next() {
		var model converter.IndexRunModel
		if err := rows.Scan(
			&model.ID, &model.Modality, &model.State,
			&model.Attempted, &model.Succeeded, &model.Failed, &model.Skipped,
			&model.Failures, &model.Error, &model.StartedAt, &model.FinishedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		run, err := r.conv.ToEntity(&model)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return runs, nil
}
