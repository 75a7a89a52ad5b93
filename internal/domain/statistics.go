package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind - вид позиции журнала.
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindService ItemKind = "service"
)

// Имена отчётов; используются как ключи кэша и имена gRPC-методов.
const (
	ViewTopClientsByQuantity = "top_clients_by_quantity"
	ViewMostConsumedItems    = "most_consumed_items"
	ViewPetSegments          = "consumption_by_pet_type_and_breed"
	ViewTopClientsByValue    = "top_clients_by_value"
)

// Лимиты рейтингов клиентов.
const (
	TopClientsByQuantityLimit = 10
	TopClientsByValueLimit    = 5
)

type ClientRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ClientRanking - строка рейтинга клиентов.
// Quantity = сумма количеств товаров + число оказанных услуг; Value = сумма итогов.
type ClientRanking struct {
	Client   ClientRef       `json:"client"`
	Quantity int64           `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

type ItemRef struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Kind ItemKind `json:"kind"`
}

type ItemConsumption struct {
	Item     ItemRef `json:"item"`
	Quantity int64   `json:"quantity"`
}

// PetSegment - потребление клиентов, владеющих питомцем данного вида и породы.
type PetSegment struct {
	Type  string            `json:"type"`
	Breed string            `json:"breed"`
	Items []ItemConsumption `json:"items"`
}

// StatisticsSnapshot - все четыре отчёта, построенные по одному согласованному чтению.
type StatisticsSnapshot struct {
	GeneratedAt          time.Time         `json:"generated_at"`
	TopClientsByQuantity []ClientRanking   `json:"top_clients_by_quantity"`
	MostConsumedItems    []ItemConsumption `json:"most_consumed_items"`
	PetSegments          []PetSegment      `json:"consumption_by_pet_type_and_breed"`
	TopClientsByValue    []ClientRanking   `json:"top_clients_by_value"`
}
