package http

import (
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// Денежные поля принимаются и числом, и строкой: decimal разбирает оба формата.

type createProductConsumptionBody struct {
	ClientID   int64            `json:"client_id"`
	ProductID  int64            `json:"product_id"`
	Quantity   int64            `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Discount   *decimal.Decimal `json:"discount"`
	ConsumedAt *time.Time       `json:"consumed_at"`
}

func (b *createProductConsumptionBody) toReq() (*usecase.CreateProductConsumptionReq, error) {
	if b.UnitPrice == nil {
		return nil, e.Wrap("unit_price is required", e.ErrInvalidBody)
	}

	return &usecase.CreateProductConsumptionReq{
		ClientID:   b.ClientID,
		ProductID:  b.ProductID,
		Quantity:   b.Quantity,
		UnitPrice:  *b.UnitPrice,
		Discount:   valueOrZero(b.Discount),
		ConsumedAt: timeOrZero(b.ConsumedAt),
	}, nil
}

type updateProductConsumptionBody struct {
	ClientID   *int64           `json:"client_id"`
	ProductID  *int64           `json:"product_id"`
	Quantity   *int64           `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Discount   *decimal.Decimal `json:"discount"`
	ConsumedAt *time.Time       `json:"consumed_at"`
}

func (b *updateProductConsumptionBody) toPatch() domain.ProductConsumptionPatch {
	return domain.ProductConsumptionPatch{
		ClientID:   b.ClientID,
		ProductID:  b.ProductID,
		Quantity:   b.Quantity,
		UnitPrice:  b.UnitPrice,
		Discount:   b.Discount,
		ConsumedAt: b.ConsumedAt,
	}
}

type createServiceConsumptionBody struct {
	ClientID   int64            `json:"client_id"`
	ServiceID  int64            `json:"service_id"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Discount   *decimal.Decimal `json:"discount"`
	ConsumedAt *time.Time       `json:"consumed_at"`
	Notes      *string          `json:"notes"`
}

func (b *createServiceConsumptionBody) toReq() (*usecase.CreateServiceConsumptionReq, error) {
	if b.UnitPrice == nil {
		return nil, e.Wrap("unit_price is required", e.ErrInvalidBody)
	}

	return &usecase.CreateServiceConsumptionReq{
		ClientID:   b.ClientID,
		ServiceID:  b.ServiceID,
		UnitPrice:  *b.UnitPrice,
		Discount:   valueOrZero(b.Discount),
		ConsumedAt: timeOrZero(b.ConsumedAt),
		Notes:      b.Notes,
	}, nil
}

type updateServiceConsumptionBody struct {
	ClientID   *int64           `json:"client_id"`
	ServiceID  *int64           `json:"service_id"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Discount   *decimal.Decimal `json:"discount"`
	ConsumedAt *time.Time       `json:"consumed_at"`
	Notes      *string          `json:"notes"`
}

func (b *updateServiceConsumptionBody) toPatch() domain.ServiceConsumptionPatch {
	return domain.ServiceConsumptionPatch{
		ClientID:   b.ClientID,
		ServiceID:  b.ServiceID,
		UnitPrice:  b.UnitPrice,
		Discount:   b.Discount,
		ConsumedAt: b.ConsumedAt,
		Notes:      b.Notes,
	}
}

type adjustStockBody struct {
	Delta *int64 `json:"delta"`
}

type ProductConsumptionResponse struct {
	ID         int64           `json:"id"`
	ClientID   int64           `json:"client_id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	ConsumedAt time.Time       `json:"consumed_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

type ServiceConsumptionResponse struct {
	ID         int64           `json:"id"`
	ClientID   int64           `json:"client_id"`
	ServiceID  int64           `json:"service_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	ConsumedAt time.Time       `json:"consumed_at"`
	Notes      *string         `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

type ProductResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func toProductConsumptionResponse(pc *domain.ProductConsumption) *ProductConsumptionResponse {
	return &ProductConsumptionResponse{
		ID:         pc.ID,
		ClientID:   pc.ClientID,
		ProductID:  pc.ProductID,
		Quantity:   pc.Quantity,
		UnitPrice:  pc.UnitPrice,
		Discount:   pc.Discount,
		Total:      pc.Total,
		ConsumedAt: pc.ConsumedAt,
		CreatedAt:  pc.CreatedAt,
		UpdatedAt:  pc.UpdatedAt,
	}
}

func toArrProductConsumptionResponse(pcs []domain.ProductConsumption) []*ProductConsumptionResponse {
	res := make([]*ProductConsumptionResponse, len(pcs))
	for i := range pcs {
		res[i] = toProductConsumptionResponse(&pcs[i])
	}
	return res
}

func toServiceConsumptionResponse(sc *domain.ServiceConsumption) *ServiceConsumptionResponse {
	return &ServiceConsumptionResponse{
		ID:         sc.ID,
		ClientID:   sc.ClientID,
		ServiceID:  sc.ServiceID,
		UnitPrice:  sc.UnitPrice,
		Discount:   sc.Discount,
		Total:      sc.Total,
		ConsumedAt: sc.ConsumedAt,
		Notes:      sc.Notes,
		CreatedAt:  sc.CreatedAt,
		UpdatedAt:  sc.UpdatedAt,
	}
}

func toArrServiceConsumptionResponse(scs []domain.ServiceConsumption) []*ServiceConsumptionResponse {
	res := make([]*ServiceConsumptionResponse, len(scs))
	for i := range scs {
		res[i] = toServiceConsumptionResponse(&scs[i])
	}
	return res
}

func toProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		UpdatedAt: p.UpdatedAt,
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
