package usecase

import (
	"slices"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Агрегация отчётов - чистые функции над одним прочитанным Dataset.
// Порядок «первого появления»: записи товаров по id, затем записи услуг по id.

type itemKey struct {
	kind domain.ItemKind
	id   int64
}

type petPair struct {
	petType string
	breed   string
}

// TopClientsByQuantity - клиенты с наибольшим числом позиций, не более 10.
func TopClientsByQuantity(ds *Dataset) []domain.ClientRanking {
	rankings := make([]domain.ClientRanking, 0)
	for _, r := range groupByClient(ds) {
		if r.Quantity > 0 {
			rankings = append(rankings, r)
		}
	}

	slices.SortStableFunc(rankings, func(a, b domain.ClientRanking) int {
		return cmpDesc(a.Quantity, b.Quantity)
	})

	return limit(rankings, domain.TopClientsByQuantityLimit)
}

// TopClientsByValue - клиенты с наибольшей суммой итогов, не более 5.
func TopClientsByValue(ds *Dataset) []domain.ClientRanking {
	rankings := make([]domain.ClientRanking, 0)
	for _, r := range groupByClient(ds) {
		if r.Value.IsPositive() {
			rankings = append(rankings, r)
		}
	}

	slices.SortStableFunc(rankings, func(a, b domain.ClientRanking) int {
		return b.Value.Cmp(a.Value)
	})

	return limit(rankings, domain.TopClientsByValueLimit)
}

// MostConsumedItems - все товары и услуги по убыванию потреблённого количества.
func MostConsumedItems(ds *Dataset) []domain.ItemConsumption {
	items := itemTotals(ds, ds.ProductConsumptions, ds.ServiceConsumptions)

	slices.SortStableFunc(items, func(a, b domain.ItemConsumption) int {
		return cmpDesc(a.Quantity, b.Quantity)
	})

	return items
}

// ConsumptionByPetTypeAndBreed группирует потребление по видам и породам питомцев владельца.
// Клиент с несколькими питомцами одной пары учитывается в ней один раз.
func ConsumptionByPetTypeAndBreed(ds *Dataset) []domain.PetSegment {
	petsByClient := make(map[int64][]domain.Pet)
	for _, p := range ds.Pets {
		petsByClient[p.ClientID] = append(petsByClient[p.ClientID], p)
	}

	productsByClient := make(map[int64][]domain.ProductConsumption)
	for _, pc := range ds.ProductConsumptions {
		productsByClient[pc.ClientID] = append(productsByClient[pc.ClientID], pc)
	}
	servicesByClient := make(map[int64][]domain.ServiceConsumption)
	for _, sc := range ds.ServiceConsumptions {
		servicesByClient[sc.ClientID] = append(servicesByClient[sc.ClientID], sc)
	}

	var (
		order    []petPair
		segments = make(map[petPair]*segmentAcc)
	)

	for _, c := range ds.Clients {
		pets := petsByClient[c.ID]
		if len(pets) == 0 {
			continue
		}

		clientItems := itemTotals(ds, productsByClient[c.ID], servicesByClient[c.ID])

		seen := make(map[petPair]struct{}, len(pets))
		for _, pet := range pets {
			pair := petPair{petType: pet.Type, breed: pet.Breed}
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}

			acc, ok := segments[pair]
			if !ok {
				acc = newSegmentAcc()
				segments[pair] = acc
				order = append(order, pair)
			}
			acc.add(clientItems)
		}
	}

	result := make([]domain.PetSegment, 0, len(order))
	for _, pair := range order {
		result = append(result, domain.PetSegment{
			Type:  pair.petType,
			Breed: pair.breed,
			Items: segments[pair].items(),
		})
	}

	return result
}

// BuildSnapshot строит все четыре отчёта по одному набору данных.
func BuildSnapshot(ds *Dataset) *domain.StatisticsSnapshot {
	return &domain.StatisticsSnapshot{
		TopClientsByQuantity: TopClientsByQuantity(ds),
		MostConsumedItems:    MostConsumedItems(ds),
		PetSegments:          ConsumptionByPetTypeAndBreed(ds),
		TopClientsByValue:    TopClientsByValue(ds),
	}
}

// HELPERS

// groupByClient суммирует количество и итоги по клиентам в порядке первого появления.
func groupByClient(ds *Dataset) []domain.ClientRanking {
	names := make(map[int64]string, len(ds.Clients))
	for _, c := range ds.Clients {
		names[c.ID] = c.Name
	}

	var (
		order  []int64
		totals = make(map[int64]*domain.ClientRanking)
	)
	get := func(clientID int64) *domain.ClientRanking {
		r, ok := totals[clientID]
		if !ok {
			r = &domain.ClientRanking{
				Client: domain.ClientRef{ID: clientID, Name: names[clientID]},
				Value:  decimal.Zero,
			}
			totals[clientID] = r
			order = append(order, clientID)
		}
		return r
	}

	for _, pc := range ds.ProductConsumptions {
		r := get(pc.ClientID)
		r.Quantity += pc.Quantity
		r.Value = r.Value.Add(pc.Total)
	}
	for _, sc := range ds.ServiceConsumptions {
		r := get(sc.ClientID)
		r.Quantity++
		r.Value = r.Value.Add(sc.Total)
	}

	result := make([]domain.ClientRanking, 0, len(order))
	for _, id := range order {
		result = append(result, *totals[id])
	}
	return result
}

// itemTotals считает количество по позициям: для товара - сумма Quantity, для услуги - число записей.
func itemTotals(ds *Dataset, pcs []domain.ProductConsumption, scs []domain.ServiceConsumption) []domain.ItemConsumption {
	productNames := make(map[int64]string, len(ds.Products))
	for _, p := range ds.Products {
		productNames[p.ID] = p.Name
	}
	serviceNames := make(map[int64]string, len(ds.Services))
	for _, s := range ds.Services {
		serviceNames[s.ID] = s.Name
	}

	acc := newSegmentAcc()
	for _, pc := range pcs {
		acc.inc(domain.ItemRef{ID: pc.ProductID, Name: productNames[pc.ProductID], Kind: domain.ItemKindProduct}, pc.Quantity)
	}
	for _, sc := range scs {
		acc.inc(domain.ItemRef{ID: sc.ServiceID, Name: serviceNames[sc.ServiceID], Kind: domain.ItemKindService}, 1)
	}

	return acc.list()
}

// segmentAcc накапливает количества по позициям, сохраняя порядок первого появления.
type segmentAcc struct {
	order  []itemKey
	totals map[itemKey]*domain.ItemConsumption
}

func newSegmentAcc() *segmentAcc {
	return &segmentAcc{totals: make(map[itemKey]*domain.ItemConsumption)}
}

func (s *segmentAcc) inc(item domain.ItemRef, qty int64) {
	key := itemKey{kind: item.Kind, id: item.ID}
	t, ok := s.totals[key]
	if !ok {
		t = &domain.ItemConsumption{Item: item}
		s.totals[key] = t
		s.order = append(s.order, key)
	}
	t.Quantity += qty
}

func (s *segmentAcc) add(items []domain.ItemConsumption) {
	for _, it := range items {
		s.inc(it.Item, it.Quantity)
	}
}

func (s *segmentAcc) list() []domain.ItemConsumption {
	result := make([]domain.ItemConsumption, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, *s.totals[key])
	}
	return result
}

// items возвращает ненулевые позиции сегмента по убыванию количества.
func (s *segmentAcc) items() []domain.ItemConsumption {
	result := make([]domain.ItemConsumption, 0, len(s.order))
	for _, it := range s.list() {
		if it.Quantity > 0 {
			result = append(result, it)
		}
	}

	slices.SortStableFunc(result, func(a, b domain.ItemConsumption) int {
		return cmpDesc(a.Quantity, b.Quantity)
	})

	return result
}

func cmpDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func limit[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
