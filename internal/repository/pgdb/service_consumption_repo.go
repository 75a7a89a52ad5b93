package pgdb

import (
	"context"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const serviceConsumptionColumns = `
	id, client_id, service_id, unit_price, discount, total, consumed_at, notes, created_at, updated_at
`

// ServiceConsumptionRepo реализует журнал оказанных услуг поверх PostgreSQL.
type ServiceConsumptionRepo struct {
	pool *pgxpool.Pool
	conv converter.ServiceConsumptionConverter
}

func NewServiceConsumptionRepo(pool *pgxpool.Pool, conv converter.ServiceConsumptionConverter) *ServiceConsumptionRepo {
	return &ServiceConsumptionRepo{
		pool: pool,
		conv: conv,
	}
}

func (r *ServiceConsumptionRepo) Create(ctx context.Context, sc *domain.ServiceConsumption) (*domain.ServiceConsumption, error) {
	model := r.conv.ToModel(sc)

	query := `
		INSERT INTO service_consumptions (
			client_id, service_id, unit_price, discount, total, consumed_at, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + serviceConsumptionColumns

	row := tr.Conn(ctx, r.pool).QueryRow(ctx, query,
		model.ClientID, model.ServiceID, model.UnitPrice,
		model.Discount, model.Total, model.ConsumedAt, model.Notes,
	)
	created, err := scanServiceConsumption(row)
	if err != nil {
		switch {
		case postgresForeignKey(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		case postgresOutOfRange(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOutOfRange)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(created), nil
}

func (r *ServiceConsumptionRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceConsumption, error) {
	return r.get(ctx, id, "")
}

func (r *ServiceConsumptionRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.ServiceConsumption, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *ServiceConsumptionRepo) get(ctx context.Context, id int64, lock string) (*domain.ServiceConsumption, error) {
	query := `SELECT ` + serviceConsumptionColumns + ` FROM service_consumptions WHERE id = $1 ` + lock

	model, err := scanServiceConsumption(tr.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrConsumptionNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(model), nil
}

func (r *ServiceConsumptionRepo) Update(ctx context.Context, sc *domain.ServiceConsumption) (*domain.ServiceConsumption, error) {
	model := r.conv.ToModel(sc)

	query := `
		UPDATE service_consumptions SET
			client_id = $2,
			service_id = $3,
			unit_price = $4,
			discount = $5,
			total = $6,
			consumed_at = $7,
			notes = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + serviceConsumptionColumns

	row := tr.Conn(ctx, r.pool).QueryRow(ctx, query,
		model.ID, model.ClientID, model.ServiceID, model.UnitPrice,
		model.Discount, model.Total, model.ConsumedAt, model.Notes,
	)
	updated, err := scanServiceConsumption(row)
	if err != nil {
		switch {
		case noRows(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrConsumptionNotFound)
		case postgresForeignKey(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		case postgresOutOfRange(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOutOfRange)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(updated), nil
}

func (r *ServiceConsumptionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM service_consumptions WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrConsumptionNotFound)
	}

	return nil
}

func (r *ServiceConsumptionRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.ServiceConsumption, error) {
	query := `
		SELECT ` + serviceConsumptionColumns + `
		FROM service_consumptions
		WHERE client_id = $1
		ORDER BY consumed_at, id
	`

	return r.list(ctx, query, clientID)
}

func (r *ServiceConsumptionRepo) ListAll(ctx context.Context) ([]domain.ServiceConsumption, error) {
	query := `SELECT ` + serviceConsumptionColumns + ` FROM service_consumptions ORDER BY id`

	return r.list(ctx, query)
}

func (r *ServiceConsumptionRepo) list(ctx context.Context, query string, args ...any) ([]domain.ServiceConsumption, error) {
	rows, err := tr.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.ServiceConsumptionModel
	for rows.Next() {
		model, err := scanServiceConsumption(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToArrEntity(models), nil
}

func scanServiceConsumption(row pgx.Row) (*converter.ServiceConsumptionModel, error) {
	var model converter.ServiceConsumptionModel
	err := row.Scan(
		&model.ID, &model.ClientID, &model.ServiceID,
		&model.UnitPrice, &model.Discount, &model.Total,
		&model.ConsumedAt, &model.Notes, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
