package pgdb

import (
	"context"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ClientRepo читает справочник клиентов.
type ClientRepo struct {
	pool *pgxpool.Pool
	conv converter.ReferenceConverter
}

func NewClientRepo(pool *pgxpool.Pool, conv converter.ReferenceConverter) *ClientRepo {
	return &ClientRepo{pool: pool, conv: conv}
}

func (c *ClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `SELECT id, name, created_at FROM clients WHERE id = $1`

	var model converter.ClientModel
	if err := tr.Conn(ctx, c.pool).QueryRow(ctx, query, id).
		Scan(&model.ID, &model.Name, &model.CreatedAt); err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrClientNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ClientToEntity(&model), nil
}

func (c *ClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := tr.Conn(ctx, c.pool).Query(ctx, `SELECT id, name, created_at FROM clients ORDER BY id`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Client, 0)
	for rows.Next() {
		var model converter.ClientModel
		if err := rows.Scan(&model.ID, &model.Name, &model.CreatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *c.conv.ClientToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
