package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/cfg"
	"github.com/DRSN-tech/petshop-backend/internal/usecase"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/go-resty/resty/v2"
	"github.com/jimlawless/whereami"
)

const defaultTimeout = 5 * time.Second

// StockNotifier отправляет уведомления о низком остатке на внешний webhook.
type StockNotifier struct {
	httpClient *resty.Client
	url        string
}

func NewStockNotifier(cfg *cfg.StockCfg) *StockNotifier {
	timeout := cfg.WebhookTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &StockNotifier{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

// NotifyLowStock считает ошибкой любой ответ вне диапазона 2xx.
func (s *StockNotifier) NotifyLowStock(ctx context.Context, n *usecase.LowStockNotification) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(n).
		Post(s.url)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("webhook responded with status %d: %s", resp.StatusCode(), resp.String()))
	}

	return nil
}
