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

// ServiceRepo читает справочник услуг.
type ServiceRepo struct {
	pool *pgxpool.Pool
	conv converter.ReferenceConverter
}

func NewServiceRepo(pool *pgxpool.Pool, conv converter.ReferenceConverter) *ServiceRepo {
	return &ServiceRepo{pool: pool, conv: conv}
}

func (s *ServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	query := `SELECT id, name, price FROM services WHERE id = $1`

	var model converter.ServiceModel
	if err := tr.Conn(ctx, s.pool).QueryRow(ctx, query, id).
		Scan(&model.ID, &model.Name, &model.Price); err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrServiceNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ServiceToEntity(&model), nil
}

func (s *ServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := tr.Conn(ctx, s.pool).Query(ctx, `SELECT id, name, price FROM services ORDER BY id`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Service, 0)
	for rows.Next() {
		var model converter.ServiceModel
		if err := rows.Scan(&model.ID, &model.Name, &model.Price); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *s.conv.ServiceToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
