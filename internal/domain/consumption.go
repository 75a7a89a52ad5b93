package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale - число знаков после запятой в денежных колонках хранилища.
const MoneyScale = 2

// ValidMoney сообщает, что все суммы представимы в MoneyScale знаках без округления.
// Округление на стороне БД по отдельности для цены и итога нарушило бы инвариант итога.
func ValidMoney(amounts ...decimal.Decimal) bool {
	for _, a := range amounts {
		if !a.Equal(a.Round(MoneyScale)) {
			return false
		}
	}
	return true
}

// ProductConsumption - запись журнала продаж: покупка товара клиентом.
// Инвариант: Total == (UnitPrice - Discount) * Quantity.
type ProductConsumption struct {
	ID         int64
	ClientID   int64
	ProductID  int64
	Quantity   int64
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	ConsumedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func NewProductConsumption(
	clientID, productID, quantity int64,
	unitPrice, discount decimal.Decimal,
	consumedAt time.Time,
) *ProductConsumption {
	if consumedAt.IsZero() {
		consumedAt = time.Now().UTC()
	}

	pc := &ProductConsumption{
		ClientID:   clientID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Discount:   discount,
		ConsumedAt: consumedAt,
	}
	pc.RecomputeTotal()

	return pc
}

// RecomputeTotal пересчитывает итог по текущим цене, скидке и количеству.
// Скидка больше цены даёт отрицательный итог; это допустимо.
func (pc *ProductConsumption) RecomputeTotal() {
	pc.Total = pc.UnitPrice.Sub(pc.Discount).Mul(decimal.NewFromInt(pc.Quantity))
}

// ProductConsumptionPatch - частичное обновление; nil означает «не менять».
type ProductConsumptionPatch struct {
	ClientID   *int64
	ProductID  *int64
	Quantity   *int64
	UnitPrice  *decimal.Decimal
	Discount   *decimal.Decimal
	ConsumedAt *time.Time
}

func (p ProductConsumptionPatch) IsEmpty() bool {
	return p.ClientID == nil && p.ProductID == nil && p.Quantity == nil &&
		p.UnitPrice == nil && p.Discount == nil && p.ConsumedAt == nil
}

// Apply накладывает заданные поля на запись и пересчитывает итог.
func (pc *ProductConsumption) Apply(p ProductConsumptionPatch) {
	if p.ClientID != nil {
		pc.ClientID = *p.ClientID
	}
	if p.ProductID != nil {
		pc.ProductID = *p.ProductID
	}
	if p.Quantity != nil {
		pc.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		pc.UnitPrice = *p.UnitPrice
	}
	if p.Discount != nil {
		pc.Discount = *p.Discount
	}
	if p.ConsumedAt != nil {
		pc.ConsumedAt = *p.ConsumedAt
	}
	pc.RecomputeTotal()
}

// ServiceConsumption - запись журнала: одно оказание услуги клиенту.
// Инвариант: Total == UnitPrice - Discount.
type ServiceConsumption struct {
	ID         int64
	ClientID   int64
	ServiceID  int64
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	ConsumedAt time.Time
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func NewServiceConsumption(
	clientID, serviceID int64,
	unitPrice, discount decimal.Decimal,
	consumedAt time.Time,
	notes *string,
) *ServiceConsumption {
	if consumedAt.IsZero() {
		consumedAt = time.Now().UTC()
	}

	sc := &ServiceConsumption{
		ClientID:   clientID,
		ServiceID:  serviceID,
		UnitPrice:  unitPrice,
		Discount:   discount,
		ConsumedAt: consumedAt,
		Notes:      notes,
	}
	sc.RecomputeTotal()

	return sc
}

func (sc *ServiceConsumption) RecomputeTotal() {
	sc.Total = sc.UnitPrice.Sub(sc.Discount)
}

// ServiceConsumptionPatch - частичное обновление; nil означает «не менять».
type ServiceConsumptionPatch struct {
	ClientID   *int64
	ServiceID  *int64
	UnitPrice  *decimal.Decimal
	Discount   *decimal.Decimal
	ConsumedAt *time.Time
	Notes      *string
}

func (p ServiceConsumptionPatch) IsEmpty() bool {
	return p.ClientID == nil && p.ServiceID == nil && p.UnitPrice == nil &&
		p.Discount == nil && p.ConsumedAt == nil && p.Notes == nil
}

func (sc *ServiceConsumption) Apply(p ServiceConsumptionPatch) {
	if p.ClientID != nil {
		sc.ClientID = *p.ClientID
	}
	if p.ServiceID != nil {
		sc.ServiceID = *p.ServiceID
	}
	if p.UnitPrice != nil {
		sc.UnitPrice = *p.UnitPrice
	}
	if p.Discount != nil {
		sc.Discount = *p.Discount
	}
	if p.ConsumedAt != nil {
		sc.ConsumedAt = *p.ConsumedAt
	}
	if p.Notes != nil {
		sc.Notes = p.Notes
	}
	sc.RecomputeTotal()
}
