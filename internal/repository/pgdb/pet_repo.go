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

// PetRepo читает питомцев клиентов.
type PetRepo struct {
	pool *pgxpool.Pool
	conv converter.ReferenceConverter
}

func NewPetRepo(pool *pgxpool.Pool, conv converter.ReferenceConverter) *PetRepo {
	return &PetRepo{pool: pool, conv: conv}
}

func (p *PetRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.Pet, error) {
	return p.list(ctx, `
		SELECT id, client_id, name, type, breed
		FROM pets
		WHERE client_id = $1
		ORDER BY id
	`, clientID)
}

func (p *PetRepo) List(ctx context.Context) ([]domain.Pet, error) {
	return p.list(ctx, `SELECT id, client_id, name, type, breed FROM pets ORDER BY id`)
}

func (p *PetRepo) list(ctx context.Context, query string, args ...any) ([]domain.Pet, error) {
	rows, err := tr.Conn(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Pet, 0)
	for rows.Next() {
		var model converter.PetModel
		if err := rows.Scan(&model.ID, &model.ClientID, &model.Name, &model.Type, &model.Breed); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *p.conv.PetToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
