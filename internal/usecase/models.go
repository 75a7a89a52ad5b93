package usecase

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LEDGER USECASE

type CreateProductConsumptionReq struct {
	ClientID   int64
	ProductID  int64
	Quantity   int64
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal // по умолчанию 0
	ConsumedAt time.Time       // нулевое значение - текущее время
}

type UpdateProductConsumptionReq struct {
	ID    int64
	Patch domain.ProductConsumptionPatch
}

type CreateServiceConsumptionReq struct {
	ClientID   int64
	ServiceID  int64
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal
	ConsumedAt time.Time
	Notes      *string
}

type UpdateServiceConsumptionReq struct {
	ID    int64
	Patch domain.ServiceConsumptionPatch
}

// STOCK USECASE

// AdjustStockReq - корректировка остатка: отрицательная Delta - продажа, положительная - поступление.
type AdjustStockReq struct {
	ProductID int64
	Delta     int64
}

type LowStockNotification struct {
	ProductID  int64     `json:"product_id"`
	Name       string    `json:"name"`
	Stock      int64     `json:"stock"`
	Threshold  int64     `json:"threshold"`
	OccurredAt time.Time `json:"occurred_at"`
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductConsumptionCreated OutboxEventType = "product_consumption.created"
	ProductConsumptionUpdated OutboxEventType = "product_consumption.updated"
	ProductConsumptionDeleted OutboxEventType = "product_consumption.deleted"
	ServiceConsumptionCreated OutboxEventType = "service_consumption.created"
	ServiceConsumptionUpdated OutboxEventType = "service_consumption.updated"
	ServiceConsumptionDeleted OutboxEventType = "service_consumption.deleted"
	StockAdjusted             OutboxEventType = "stock.adjusted"
)

// OutboxEvent - событие журнала, записанное в той же транзакции, что и изменение.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

func NewOutboxEvent(eventType OutboxEventType, aggregateID int64, payload any) (*OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     data,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

type ProductConsumptionEvent struct {
	ID         int64           `json:"id"`
	ClientID   int64           `json:"client_id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	ConsumedAt time.Time       `json:"consumed_at"`
}

type ServiceConsumptionEvent struct {
	ID         int64           `json:"id"`
	ClientID   int64           `json:"client_id"`
	ServiceID  int64           `json:"service_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	ConsumedAt time.Time       `json:"consumed_at"`
	Notes      *string         `json:"notes,omitempty"`
}

type DeletedEvent struct {
	ID int64 `json:"id"`
}

type StockAdjustedEvent struct {
	ProductID int64 `json:"product_id"`
	Delta     int64 `json:"delta"`
	Stock     int64 `json:"stock"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key       int64
	EventType string
	Payload   []byte
}

// STATISTICS

// Dataset - всё, что нужно отчётам, прочитанное в одной транзакции.
// Срезы упорядочены по id.
type Dataset struct {
	Clients             []domain.Client
	Products            []domain.Product
	Services            []domain.Service
	Pets                []domain.Pet
	ProductConsumptions []domain.ProductConsumption
	ServiceConsumptions []domain.ServiceConsumption
}

// MAPPERS

func NewProductConsumptionEvent(pc *domain.ProductConsumption) ProductConsumptionEvent {
	return ProductConsumptionEvent{
		ID:         pc.ID,
		ClientID:   pc.ClientID,
		ProductID:  pc.ProductID,
		Quantity:   pc.Quantity,
		UnitPrice:  pc.UnitPrice,
		Discount:   pc.Discount,
		Total:      pc.Total,
		ConsumedAt: pc.ConsumedAt,
	}
}

func NewServiceConsumptionEvent(sc *domain.ServiceConsumption) ServiceConsumptionEvent {
	return ServiceConsumptionEvent{
		ID:         sc.ID,
		ClientID:   sc.ClientID,
		ServiceID:  sc.ServiceID,
		UnitPrice:  sc.UnitPrice,
		Discount:   sc.Discount,
		Total:      sc.Total,
		ConsumedAt: sc.ConsumedAt,
		Notes:      sc.Notes,
	}
}

func NewWriteRawMessageReq(event *OutboxEvent) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       event.AggregateID,
		EventType: string(event.EventType),
		Payload:   event.Payload,
	}
}
