package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewProductConsumptionTotal(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		qty      int64
		want     string
	}{
		{"with discount", "10", "2", 3, "24"},
		{"no discount", "4.50", "0", 2, "9"},
		{"discount above price", "5", "7", 2, "-4"},
		{"fractional", "19.99", "0.99", 1, "19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := NewProductConsumption(1, 2, tt.qty, dec(tt.price), dec(tt.discount), time.Time{})
			assert.True(t, dec(tt.want).Equal(pc.Total), "got %s", pc.Total)
			assert.False(t, pc.ConsumedAt.IsZero())
		})
	}
}

func TestProductConsumptionApplyRecomputes(t *testing.T) {
	pc := NewProductConsumption(1, 2, 3, dec("10"), dec("2"), time.Now())

	qty := int64(5)
	pc.Apply(ProductConsumptionPatch{Quantity: &qty})
	assert.True(t, dec("40").Equal(pc.Total))

	discount := dec("0")
	pc.Apply(ProductConsumptionPatch{Discount: &discount})
	assert.True(t, dec("50").Equal(pc.Total))
	assert.Equal(t, int64(1), pc.ClientID)
}

func TestProductConsumptionPatchIsEmpty(t *testing.T) {
	assert.True(t, ProductConsumptionPatch{}.IsEmpty())

	id := int64(3)
	assert.False(t, ProductConsumptionPatch{ClientID: &id}.IsEmpty())
}

func TestServiceConsumptionTotal(t *testing.T) {
	notes := "nail trim"
	sc := NewServiceConsumption(1, 9, dec("35"), dec("5"), time.Time{}, &notes)
	assert.True(t, dec("30").Equal(sc.Total))

	price := dec("40")
	sc.Apply(ServiceConsumptionPatch{UnitPrice: &price})
	assert.True(t, dec("35").Equal(sc.Total))
	assert.Equal(t, "nail trim", *sc.Notes)

	assert.True(t, ServiceConsumptionPatch{}.IsEmpty())
}

func TestProductIsLowStock(t *testing.T) {
	p := &Product{Stock: 3}
	assert.True(t, p.IsLowStock(3))
	assert.False(t, p.IsLowStock(2))
}

func TestValidMoney(t *testing.T) {
	assert.True(t, ValidMoney(dec("10"), dec("0.99"), dec("1.500"), dec("-3.25")))
	assert.True(t, ValidMoney())
	assert.False(t, ValidMoney(dec("0.125")))
	assert.False(t, ValidMoney(dec("1"), dec("0.001")))
}
