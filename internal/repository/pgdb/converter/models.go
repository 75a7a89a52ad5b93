package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductConsumptionModel представляет запись таблицы product_consumptions в PostgreSQL.
type ProductConsumptionModel struct {
	ID         int64           `db:"id"`
	ClientID   int64           `db:"client_id"`
	ProductID  int64           `db:"product_id"`
	Quantity   int64           `db:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	Discount   decimal.Decimal `db:"discount"`
	Total      decimal.Decimal `db:"total"`
	ConsumedAt time.Time       `db:"consumed_at"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  *time.Time      `db:"updated_at"`
}

// ServiceConsumptionModel представляет запись таблицы service_consumptions в PostgreSQL.
type ServiceConsumptionModel struct {
	ID         int64           `db:"id"`
	ClientID   int64           `db:"client_id"`
	ServiceID  int64           `db:"service_id"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	Discount   decimal.Decimal `db:"discount"`
	Total      decimal.Decimal `db:"total"`
	ConsumedAt time.Time       `db:"consumed_at"`
	Notes      *string         `db:"notes"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  *time.Time      `db:"updated_at"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Stock     int64           `db:"stock"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt *time.Time      `db:"updated_at"`
}

type ClientModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type ServiceModel struct {
	ID    int64           `db:"id"`
	Name  string          `db:"name"`
	Price decimal.Decimal `db:"price"`
}

type PetModel struct {
	ID       int64  `db:"id"`
	ClientID int64  `db:"client_id"`
	Name     string `db:"name"`
	Type     string `db:"type"`
	Breed    string `db:"breed"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID int64      `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
