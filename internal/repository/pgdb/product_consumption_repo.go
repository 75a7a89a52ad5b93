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

const productConsumptionColumns = `
	id, client_id, product_id, quantity, unit_price, discount, total, consumed_at, created_at, updated_at
`

// ProductConsumptionRepo реализует журнал продаж товаров поверх PostgreSQL.
type ProductConsumptionRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConsumptionConverter
}

func NewProductConsumptionRepo(pool *pgxpool.Pool, conv converter.ProductConsumptionConverter) *ProductConsumptionRepo {
	return &ProductConsumptionRepo{
		pool: pool,
		conv: conv,
	}
}

func (r *ProductConsumptionRepo) Create(ctx context.Context, pc *domain.ProductConsumption) (*domain.ProductConsumption, error) {
	model := r.conv.ToModel(pc)

	// VALUES ($1..$7) client_id, product_id, quantity, unit_price, discount, total, consumed_at
	query := `
		INSERT INTO product_consumptions (
			client_id, product_id, quantity, unit_price, discount, total, consumed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productConsumptionColumns

	row := tr.Conn(ctx, r.pool).QueryRow(ctx, query,
		model.ClientID, model.ProductID, model.Quantity,
		model.UnitPrice, model.Discount, model.Total, model.ConsumedAt,
	)
	created, err := scanProductConsumption(row)
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

func (r *ProductConsumptionRepo) GetByID(ctx context.Context, id int64) (*domain.ProductConsumption, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate блокирует строку до конца текущей транзакции.
func (r *ProductConsumptionRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.ProductConsumption, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *ProductConsumptionRepo) get(ctx context.Context, id int64, lock string) (*domain.ProductConsumption, error) {
	query := `SELECT ` + productConsumptionColumns + ` FROM product_consumptions WHERE id = $1 ` + lock

	model, err := scanProductConsumption(tr.Conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrConsumptionNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(model), nil
}

func (r *ProductConsumptionRepo) Update(ctx context.Context, pc *domain.ProductConsumption) (*domain.ProductConsumption, error) {
	model := r.conv.ToModel(pc)

	query := `
		UPDATE product_consumptions SET
			client_id = $2,
			product_id = $3,
			quantity = $4,
			unit_price = $5,
			discount = $6,
			total = $7,
			consumed_at = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productConsumptionColumns

	row := tr.Conn(ctx, r.pool).QueryRow(ctx, query,
		model.ID, model.ClientID, model.ProductID, model.Quantity,
		model.UnitPrice, model.Discount, model.Total, model.ConsumedAt,
	)
	updated, err := scanProductConsumption(row)
	if err != nil {
		switch {
		case noRows(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrConsumptionNotFound)
		case postgresForeignKey(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		case postgresCheck(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidQuantity)
		case postgresOutOfRange(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOutOfRange)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(updated), nil
}

func (r *ProductConsumptionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM product_consumptions WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrConsumptionNotFound)
	}

	return nil
}

// ListByClient возвращает записи клиента по времени потребления.
func (r *ProductConsumptionRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.ProductConsumption, error) {
	query := `
		SELECT ` + productConsumptionColumns + `
		FROM product_consumptions
		WHERE client_id = $1
		ORDER BY consumed_at, id
	`

	return r.list(ctx, query, clientID)
}

// ListAll возвращает весь журнал по возрастанию id.
func (r *ProductConsumptionRepo) ListAll(ctx context.Context) ([]domain.ProductConsumption, error) {
	query := `SELECT ` + productConsumptionColumns + ` FROM product_consumptions ORDER BY id`

	return r.list(ctx, query)
}

func (r *ProductConsumptionRepo) list(ctx context.Context, query string, args ...any) ([]domain.ProductConsumption, error) {
	rows, err := tr.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.ProductConsumptionModel
	for rows.Next() {
		model, err := scanProductConsumption(rows)
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

func scanProductConsumption(row pgx.Row) (*converter.ProductConsumptionModel, error) {
	var model converter.ProductConsumptionModel
	err := row.Scan(
		&model.ID, &model.ClientID, &model.ProductID, &model.Quantity,
		&model.UnitPrice, &model.Discount, &model.Total,
		&model.ConsumedAt, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
