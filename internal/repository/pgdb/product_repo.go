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

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ReferenceConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ReferenceConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, price, stock, created_at, updated_at FROM products WHERE id = $1`

	model, err := scanProduct(tr.Conn(ctx, p.pool).QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ProductToEntity(model), nil
}

func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, price, stock, created_at, updated_at FROM products ORDER BY id`

	rows, err := tr.Conn(ctx, p.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *p.conv.ProductToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// AdjustStock применяет delta одним условным UPDATE: проверка и запись атомарны,
// параллельные вызовы не могут оба увидеть один и тот же остаток.
// Если строка не обновилась, отдельный запрос различает «нет товара» и «недостаточно остатка».
func (p *ProductRepo) AdjustStock(ctx context.Context, id int64, delta int64) (*domain.Product, error) {
	conn := tr.Conn(ctx, p.pool)

	// VALUES ($1, $2) id, delta
	query := `
		UPDATE products
		SET stock = stock + $2,
			updated_at = CASE WHEN $2 = 0 THEN updated_at ELSE NOW() END
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING id, name, price, stock, created_at, updated_at
	`

	model, err := scanProduct(conn.QueryRow(ctx, query, id, delta))
	if err == nil {
		return p.conv.ProductToEntity(model), nil
	}
	if !noRows(err) {
		switch {
		case postgresCheck(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrInsufficientStock)
		case postgresOutOfRange(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOutOfRange)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if !exists {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil, e.Wrap(whereami.WhereAmI(), e.ErrInsufficientStock)
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	if err := row.Scan(
		&model.ID, &model.Name, &model.Price, &model.Stock, &model.CreatedAt, &model.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &model, nil
}
