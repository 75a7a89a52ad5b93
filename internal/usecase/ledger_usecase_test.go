package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerEnv struct {
	uc    *LedgerUseCase
	store *fakeStore
	cache *fakeCache
	tx    *fakeTx
}

func newLedgerEnv() *ledgerEnv {
	store := newFakeStore()
	store.clients[1] = domain.Client{ID: 1, Name: "Anna"}
	store.clients[2] = domain.Client{ID: 2, Name: "Boris"}
	store.products[10] = domain.Product{ID: 10, Name: "Dry food", Price: decimal.RequireFromString("12.00"), Stock: 50}
	store.products[11] = domain.Product{ID: 11, Name: "Leash", Price: decimal.RequireFromString("7.50"), Stock: 5}
	store.services[20] = domain.Service{ID: 20, Name: "Grooming", Price: decimal.RequireFromString("30.00")}
	store.nextID = 100

	cache := newFakeCache()
	tx := &fakeTx{}

	uc := NewLedgerUC(
		tx,
		fakeProductCons{store},
		fakeServiceCons{store},
		fakeClients{store},
		fakeProducts{store},
		fakeServices{store},
		fakeOutbox{store},
		cache,
		logger.NewNop(),
	)

	return &ledgerEnv{uc: uc, store: store, cache: cache, tx: tx}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateProductConsumption(t *testing.T) {
	env := newLedgerEnv()
	ctx := context.Background()

	pc, err := env.uc.CreateProductConsumption(ctx, &CreateProductConsumptionReq{
		ClientID:  1,
		ProductID: 10,
		Quantity:  3,
		UnitPrice: dec("10"),
		Discount:  dec("2"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(101), pc.ID)
	assert.True(t, pc.Total.Equal(dec("24")), "total = %s", pc.Total)
	assert.False(t, pc.ConsumedAt.IsZero())
	assert.Equal(t, int64(50), env.store.products[10].Stock, "creating a record must not touch stock")
	assert.Equal(t, []OutboxEventType{ProductConsumptionCreated}, env.store.eventTypes())
	assert.Equal(t, 1, env.cache.invalidated)
}

func TestCreateProductConsumption_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  CreateProductConsumptionReq
		want error
	}{
		{
			name: "unknown client",
			req:  CreateProductConsumptionReq{ClientID: 99, ProductID: 10, Quantity: 1, UnitPrice: dec("1")},
			want: e.ErrClientNotFound,
		},
		{
			name: "unknown product",
			req:  CreateProductConsumptionReq{ClientID: 1, ProductID: 99, Quantity: 1, UnitPrice: dec("1")},
			want: e.ErrProductNotFound,
		},
		{
			name: "zero quantity",
			req:  CreateProductConsumptionReq{ClientID: 1, ProductID: 10, Quantity: 0, UnitPrice: dec("1")},
			want: e.ErrInvalidQuantity,
		},
		{
			name: "negative client id",
			req:  CreateProductConsumptionReq{ClientID: -1, ProductID: 10, Quantity: 1, UnitPrice: dec("1")},
			want: e.ErrInvalidID,
		},
		{
			name: "price below a cent",
			req:  CreateProductConsumptionReq{ClientID: 1, ProductID: 10, Quantity: 2, UnitPrice: dec("0.125")},
			want: e.ErrInvalidMoney,
		},
		{
			name: "discount below a cent",
			req:  CreateProductConsumptionReq{ClientID: 1, ProductID: 10, Quantity: 2, UnitPrice: dec("1"), Discount: dec("0.001")},
			want: e.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newLedgerEnv()

			_, err := env.uc.CreateProductConsumption(context.Background(), &tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, env.store.pcs)
			assert.Empty(t, env.store.outbox)
			assert.Zero(t, env.cache.invalidated)
		})
	}
}

func TestCreateProductConsumption_NegativeTotalAllowed(t *testing.T) {
	env := newLedgerEnv()

	pc, err := env.uc.CreateProductConsumption(context.Background(), &CreateProductConsumptionReq{
		ClientID:  1,
		ProductID: 10,
		Quantity:  2,
		UnitPrice: dec("5"),
		Discount:  dec("8"),
	})
	require.NoError(t, err)
	assert.True(t, pc.Total.Equal(dec("-6")))
}

func TestUpdateProductConsumption(t *testing.T) {
	env := newLedgerEnv()
	ctx := context.Background()

	pc, err := env.uc.CreateProductConsumption(ctx, &CreateProductConsumptionReq{
		ClientID:  1,
		ProductID: 10,
		Quantity:  3,
		UnitPrice: dec("10"),
		Discount:  dec("2"),
	})
	require.NoError(t, err)

	updated, err := env.uc.UpdateProductConsumption(ctx, &UpdateProductConsumptionReq{
		ID:    pc.ID,
		Patch: domain.ProductConsumptionPatch{Quantity: ptr(int64(5))},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), updated.Quantity)
	assert.True(t, updated.UnitPrice.Equal(dec("10")))
	assert.True(t, updated.Total.Equal(dec("40")), "total = %s", updated.Total)
	assert.Equal(t, []OutboxEventType{ProductConsumptionCreated, ProductConsumptionUpdated}, env.store.eventTypes())
	assert.Equal(t, 2, env.cache.invalidated)

	stored, err := env.uc.GetProductConsumption(ctx, pc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(dec("40")))
}

func TestUpdateProductConsumption_Errors(t *testing.T) {
	env := newLedgerEnv()
	ctx := context.Background()

	pc, err := env.uc.CreateProductConsumption(ctx, &CreateProductConsumptionReq{
		ClientID: 1, ProductID: 10, Quantity: 1, UnitPrice: dec("10"),
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  UpdateProductConsumptionReq
		want error
	}{
		{
			name: "missing record",
			req:  UpdateProductConsumptionReq{ID: 999, Patch: domain.ProductConsumptionPatch{Quantity: ptr(int64(2))}},
			want: e.ErrNotFound,
		},
		{
			name: "missing record with empty patch",
			req:  UpdateProductConsumptionReq{ID: 999},
			want: e.ErrNotFound,
		},
		{
			name: "empty patch",
			req:  UpdateProductConsumptionReq{ID: pc.ID},
			want: e.ErrEmptyUpdate,
		},
		{
			name: "bad quantity",
			req:  UpdateProductConsumptionReq{ID: pc.ID, Patch: domain.ProductConsumptionPatch{Quantity: ptr(int64(0))}},
			want: e.ErrInvalidRequest,
		},
		{
			name: "price below a cent",
			req:  UpdateProductConsumptionReq{ID: pc.ID, Patch: domain.ProductConsumptionPatch{UnitPrice: ptr(dec("9.995"))}},
			want: e.ErrInvalidMoney,
		},
		{
			name: "unknown new client",
			req:  UpdateProductConsumptionReq{ID: pc.ID, Patch: domain.ProductConsumptionPatch{ClientID: ptr(int64(77))}},
			want: e.ErrClientNotFound,
		},
		{
			name: "unknown new product",
			req:  UpdateProductConsumptionReq{ID: pc.ID, Patch: domain.ProductConsumptionPatch{ProductID: ptr(int64(77))}},
			want: e.ErrProductNotFound,
		},
		{
			name: "invalid id",
			req:  UpdateProductConsumptionReq{ID: 0},
			want: e.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.uc.UpdateProductConsumption(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stored, err := env.uc.GetProductConsumption(ctx, pc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Quantity)
	assert.Equal(t, int64(1), stored.ClientID)
}

func TestDeleteProductConsumption(t *testing.T) {
	env := newLedgerEnv()
	ctx := context.Background()

	pc, err := env.uc.CreateProductConsumption(ctx, &CreateProductConsumptionReq{
		ClientID: 1, ProductID: 10, Quantity: 4, UnitPrice: dec("1"),
	})
	require.NoError(t, err)

	require.NoError(t, env.uc.DeleteProductConsumption(ctx, pc.ID))

	_, err = env.uc.GetProductConsumption(ctx, pc.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.Equal(t, int64(50), env.store.products[10].Stock, "deleting a record must not restore stock")

	err = env.uc.DeleteProductConsumption(ctx, pc.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.Equal(t, []OutboxEventType{ProductConsumptionCreated, ProductConsumptionDeleted}, env.store.eventTypes())
}

func TestServiceConsumptionLifecycle(t *testing.T) {
	env := newLedgerEnv()
	ctx := context.Background()

	consumedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sc, err := env.uc.CreateServiceConsumption(ctx, &CreateServiceConsumptionReq{
		ClientID:   2,
		ServiceID:  20,
		UnitPrice:  dec("30"),
		Discount:   dec("5"),
		ConsumedAt: consumedAt,
		Notes:      ptr("first visit"),
	})
	require.NoError(t, err)
	assert.True(t, sc.Total.Equal(dec("25")))
	assert.Equal(t, consumedAt, sc.ConsumedAt)

	updated, err := env.uc.UpdateServiceConsumption(ctx, &UpdateServiceConsumptionReq{
		ID:    sc.ID,
		Patch: domain.ServiceConsumptionPatch{Discount: ptr(dec("0"))},
	})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(dec("30")))
	assert.Equal(t, "first visit", *updated.Notes)

	_, err = env.uc.UpdateServiceConsumption(ctx, &UpdateServiceConsumptionReq{
		ID:    sc.ID,
		Patch: domain.ServiceConsumptionPatch{ServiceID: ptr(int64(99))},
	})
	assert.ErrorIs(t, err, e.ErrServiceNotFound)

	_, err = env.uc.UpdateServiceConsumption(ctx, &UpdateServiceConsumptionReq{ID: sc.ID})
	assert.ErrorIs(t, err, e.ErrEmptyUpdate)

	_, err = env.uc.UpdateServiceConsumption(ctx, &UpdateServiceConsumptionReq{
		ID:    sc.ID,
		Patch: domain.ServiceConsumptionPatch{Discount: ptr(dec("0.005"))},
	})
	assert.ErrorIs(t, err, e.ErrInvalidMoney)

	list, err := env.uc.ListServiceConsumptionsByClient(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, env.uc.DeleteServiceConsumption(ctx, sc.ID))
	assert.ErrorIs(t, env.uc.DeleteServiceConsumption(ctx, sc.ID), e.ErrNotFound)

	assert.Equal(t, []OutboxEventType{
		ServiceConsumptionCreated,
		ServiceConsumptionUpdated,
		ServiceConsumptionDeleted,
	}, env.store.eventTypes())
}

func TestCreateServiceConsumption_MoneyScale(t *testing.T) {
	env := newLedgerEnv()
	ctx := context.Background()

	_, err := env.uc.CreateServiceConsumption(ctx, &CreateServiceConsumptionReq{
		ClientID: 1, ServiceID: 20, UnitPrice: dec("30.125"),
	})
	assert.ErrorIs(t, err, e.ErrInvalidMoney)
	assert.Empty(t, env.store.scs)

	sc, err := env.uc.CreateServiceConsumption(ctx, &CreateServiceConsumptionReq{
		ClientID: 1, ServiceID: 20, UnitPrice: dec("30.100"), Discount: dec("0.10"),
	})
	require.NoError(t, err, "trailing zeros fit the money scale")
	assert.True(t, sc.Total.Equal(dec("30")))
}

func TestCreateServiceConsumption_UnknownService(t *testing.T) {
	env := newLedgerEnv()

	_, err := env.uc.CreateServiceConsumption(context.Background(), &CreateServiceConsumptionReq{
		ClientID: 1, ServiceID: 404, UnitPrice: dec("1"),
	})
	assert.ErrorIs(t, err, e.ErrServiceNotFound)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestListByClient(t *testing.T) {
	env := newLedgerEnv()
	ctx := context.Background()

	for _, clientID := range []int64{1, 2, 1} {
		_, err := env.uc.CreateProductConsumption(ctx, &CreateProductConsumptionReq{
			ClientID: clientID, ProductID: 10, Quantity: 1, UnitPrice: dec("1"),
		})
		require.NoError(t, err)
	}

	list, err := env.uc.ListProductConsumptionsByClient(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.uc.ListProductConsumptionsByClient(ctx, 42)
	assert.ErrorIs(t, err, e.ErrClientNotFound)

	_, err = env.uc.ListServiceConsumptionsByClient(ctx, 0)
	assert.ErrorIs(t, err, e.ErrInvalidID)
}

func TestInvalidationFailureDoesNotFailWrite(t *testing.T) {
	env := newLedgerEnv()
	env.cache.invErr = errors.New("redis unavailable")

	pc, err := env.uc.CreateProductConsumption(context.Background(), &CreateProductConsumptionReq{
		ClientID: 1, ProductID: 11, Quantity: 1, UnitPrice: dec("7.50"),
	})
	require.NoError(t, err)
	assert.NotNil(t, pc)
	assert.Equal(t, 1, env.cache.invalidated)
}
