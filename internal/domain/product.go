package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар магазина. Stock изменяется только через корректировку остатка.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	Stock     int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsLowStock сообщает, опустился ли остаток до порога включительно.
func (p *Product) IsLowStock(threshold int64) bool {
	return p.Stock <= threshold
}
