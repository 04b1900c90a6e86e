package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/indexer-backend/internal/domain"
	"github.com/DRSN-tech/indexer-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/indexer-backend/pkg/e"
)

// CatalogRepo реализует репозиторий элементов каталога поверх PostgreSQL.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// ListItems возвращает все элементы каталога в порядке возрастания id.
// Порядок фиксирован, чтобы проходы индексации были воспроизводимыми.
func (c *CatalogRepo) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	query := `
		SELECT id, name, description
		FROM catalog_items
		ORDER BY id
	`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var model converter.CatalogItemModel
		if err := rows.Scan(&model.ID, &model.Name, &model.Description); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		items = append(items, domain.CatalogItem{
			ID:          model.ID,
			Name:        model.Name,
			Description: model.Description,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return items, nil
}
