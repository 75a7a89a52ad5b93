package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

var errDB = errors.New("db is down")

type fakeTx struct {
	mu       sync.Mutex
	calls    int
	settings []trm.Settings
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeTx) DoWithSettings(ctx context.Context, s trm.Settings, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	f.settings = append(f.settings, s)
	f.mu.Unlock()
	return fn(ctx)
}

// fakeStore - хранилище в памяти, реализующее все репозитории.
type fakeStore struct {
	mu sync.Mutex

	clients  map[int64]domain.Client
	products map[int64]domain.Product
	services map[int64]domain.Service
	pets     []domain.Pet

	pcs    map[int64]domain.ProductConsumption
	scs    map[int64]domain.ServiceConsumption
	outbox []*OutboxEvent
	nextID int64

	failLists    bool
	afterListAll func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clients:  make(map[int64]domain.Client),
		products: make(map[int64]domain.Product),
		services: make(map[int64]domain.Service),
		pcs:      make(map[int64]domain.ProductConsumption),
		scs:      make(map[int64]domain.ServiceConsumption),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func sortedValues[T any](m map[int64]T) []T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	res := make([]T, 0, len(keys))
	for _, k := range keys {
		res = append(res, m[k])
	}
	return res
}

// product consumptions

type fakeProductCons struct{ *fakeStore }

func (f fakeProductCons) Create(_ context.Context, pc *domain.ProductConsumption) (*domain.ProductConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *pc
	created.ID = f.id()
	f.pcs[created.ID] = created
	return &created, nil
}

func (f fakeProductCons) GetByID(_ context.Context, id int64) (*domain.ProductConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pc, ok := f.pcs[id]
	if !ok {
		return nil, e.ErrConsumptionNotFound
	}
	return &pc, nil
}

func (f fakeProductCons) GetByIDForUpdate(ctx context.Context, id int64) (*domain.ProductConsumption, error) {
	return f.GetByID(ctx, id)
}

func (f fakeProductCons) Update(_ context.Context, pc *domain.ProductConsumption) (*domain.ProductConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.pcs[pc.ID]; !ok {
		return nil, e.ErrConsumptionNotFound
	}
	f.pcs[pc.ID] = *pc
	updated := *pc
	return &updated, nil
}

func (f fakeProductCons) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.pcs[id]; !ok {
		return e.ErrConsumptionNotFound
	}
	delete(f.pcs, id)
	return nil
}

func (f fakeProductCons) ListByClient(_ context.Context, clientID int64) ([]domain.ProductConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []domain.ProductConsumption
	for _, pc := range sortedValues(f.pcs) {
		if pc.ClientID == clientID {
			res = append(res, pc)
		}
	}
	return res, nil
}

// ListAll вызывает afterListAll один раз, уже отдав снимок записей.
func (f fakeProductCons) ListAll(_ context.Context) ([]domain.ProductConsumption, error) {
	f.mu.Lock()
	if f.failLists {
		f.mu.Unlock()
		return nil, errDB
	}
	res := sortedValues(f.pcs)
	hook := f.afterListAll
	f.afterListAll = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return res, nil
}

// service consumptions

type fakeServiceCons struct{ *fakeStore }

func (f fakeServiceCons) Create(_ context.Context, sc *domain.ServiceConsumption) (*domain.ServiceConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := *sc
	created.ID = f.id()
	f.scs[created.ID] = created
	return &created, nil
}

func (f fakeServiceCons) GetByID(_ context.Context, id int64) (*domain.ServiceConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sc, ok := f.scs[id]
	if !ok {
		return nil, e.ErrConsumptionNotFound
	}
	return &sc, nil
}

func (f fakeServiceCons) GetByIDForUpdate(ctx context.Context, id int64) (*domain.ServiceConsumption, error) {
	return f.GetByID(ctx, id)
}

func (f fakeServiceCons) Update(_ context.Context, sc *domain.ServiceConsumption) (*domain.ServiceConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.scs[sc.ID]; !ok {
		return nil, e.ErrConsumptionNotFound
	}
	f.scs[sc.ID] = *sc
	updated := *sc
	return &updated, nil
}

func (f fakeServiceCons) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.scs[id]; !ok {
		return e.ErrConsumptionNotFound
	}
	delete(f.scs, id)
	return nil
}

func (f fakeServiceCons) ListByClient(_ context.Context, clientID int64) ([]domain.ServiceConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []domain.ServiceConsumption
	for _, sc := range sortedValues(f.scs) {
		if sc.ClientID == clientID {
			res = append(res, sc)
		}
	}
	return res, nil
}

func (f fakeServiceCons) ListAll(_ context.Context) ([]domain.ServiceConsumption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return sortedValues(f.scs), nil
}

// reference data

type fakeClients struct{ *fakeStore }

func (f fakeClients) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.clients[id]
	if !ok {
		return nil, e.ErrClientNotFound
	}
	return &c, nil
}

func (f fakeClients) List(_ context.Context) ([]domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return sortedValues(f.clients), nil
}

type fakeProducts struct{ *fakeStore }

func (f fakeProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (f fakeProducts) List(_ context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return sortedValues(f.products), nil
}

// AdjustStock повторяет семантику условного UPDATE: проверка и запись под одной блокировкой.
func (f fakeProducts) AdjustStock(_ context.Context, id int64, delta int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return nil, e.ErrInsufficientStock
	}
	p.Stock += delta
	f.products[id] = p
	return &p, nil
}

type fakeServices struct{ *fakeStore }

func (f fakeServices) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.services[id]
	if !ok {
		return nil, e.ErrServiceNotFound
	}
	return &s, nil
}

func (f fakeServices) List(_ context.Context) ([]domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return sortedValues(f.services), nil
}

type fakePets struct{ *fakeStore }

func (f fakePets) ListByClient(_ context.Context, clientID int64) ([]domain.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []domain.Pet
	for _, p := range f.pets {
		if p.ClientID == clientID {
			res = append(res, p)
		}
	}
	return res, nil
}

func (f fakePets) List(_ context.Context) ([]domain.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.pets), nil
}

type fakeOutbox struct{ *fakeStore }

func (f fakeOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event.ID = int64(len(f.outbox) + 1)
	f.outbox = append(f.outbox, event)
	return event, nil
}

func (f fakeOutbox) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []*OutboxEvent
	for _, ev := range f.outbox {
		if ev.Status == Pending && len(res) < limit {
			ev.Status = Processing
			res = append(res, ev)
		}
	}
	return res, nil
}

func (f fakeOutbox) MarkAsProcessed(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ev := range f.outbox {
		if ev.ID == id {
			ev.Status = Processed
		}
	}
	return nil
}

func (f fakeOutbox) MarkAsPending(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ev := range f.outbox {
		if ev.ID == id {
			ev.Status = Pending
		}
	}
	return nil
}

func (s *fakeStore) eventTypes() []OutboxEventType {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]OutboxEventType, 0, len(s.outbox))
	for _, ev := range s.outbox {
		res = append(res, ev.EventType)
	}
	return res
}

// infrastructure

type fakeCache struct {
	mu          sync.Mutex
	views       map[string][]byte
	generation  int64
	gets        int
	sets        int
	staleSets   int
	invalidated int
	getErr      error
	genErr      error
	invErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{views: make(map[string][]byte)}
}

func (c *fakeCache) GetView(_ context.Context, view string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	if c.getErr != nil {
		return false, c.getErr
	}
	data, ok := c.views[view]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (c *fakeCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation, c.genErr
}

func (c *fakeCache) SetView(_ context.Context, view string, value any, generation int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		c.staleSets++
		return false, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	c.sets++
	c.views[view] = data
	return true, nil
}

func (c *fakeCache) InvalidateViews(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidated++
	if c.invErr != nil {
		return c.invErr
	}
	c.generation++
	clear(c.views)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []*LowStockNotification
	err  error
}

func (n *fakeNotifier) NotifyLowStock(_ context.Context, ln *LowStockNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sent = append(n.sent, ln)
	return n.err
}

type fakeArchive struct {
	saved []*domain.StatisticsSnapshot
	err   error
}

func (a *fakeArchive) SaveSnapshot(_ context.Context, snapshot *domain.StatisticsSnapshot) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.saved = append(a.saved, snapshot)
	return "snapshots/test.json", nil
}
