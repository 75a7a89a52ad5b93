package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/cfg"
	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockNotifier_PostsNotification(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewStockNotifier(&cfg.StockCfg{WebhookURL: srv.URL, WebhookTimeout: time.Second})
	err := n.NotifyLowStock(context.Background(), &usecase.LowStockNotification{
		ProductID:  7,
		Name:       "Корм для кошек",
		Stock:      2,
		Threshold:  5,
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 7, got["product_id"])
	assert.Equal(t, "Корм для кошек", got["name"])
	assert.EqualValues(t, 2, got["stock"])
	assert.EqualValues(t, 5, got["threshold"])
	assert.Equal(t, "2024-05-01T10:00:00Z", got["occurred_at"])
}

func TestStockNotifier_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewStockNotifier(&cfg.StockCfg{WebhookURL: srv.URL})
	err := n.NotifyLowStock(context.Background(), &usecase.LowStockNotification{ProductID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestStockNotifier_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	n := NewStockNotifier(&cfg.StockCfg{WebhookURL: srv.URL, WebhookTimeout: 50 * time.Millisecond})
	err := n.NotifyLowStock(context.Background(), &usecase.LowStockNotification{ProductID: 1})
	require.Error(t, err)
}
