package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
)

const notifyTimeout = 10 * time.Second

// StockUseCase изменяет остатки товаров.
// Проверка и запись остатка выполняются одним условным UPDATE в репозитории,
// поэтому параллельные продажи не могут увести остаток ниже нуля.
type StockUseCase struct {
	trManager         TxManager
	productRepo       ProductRepository
	outboxRepo        OutboxRepository
	notifier          StockNotifier
	lowStockThreshold int64
	logger            logger.Logger

	wg sync.WaitGroup
}

func NewStockUC(
	trManager TxManager,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	notifier StockNotifier,
	lowStockThreshold int64,
	logger logger.Logger,
) *StockUseCase {
	return &StockUseCase{
		trManager:         trManager,
		productRepo:       productRepo,
		outboxRepo:        outboxRepo,
		notifier:          notifier,
		lowStockThreshold: lowStockThreshold,
		logger:            logger,
	}
}

// AdjustStock прибавляет Delta к остатку товара.
// ErrProductNotFound - товара нет; ErrInsufficientStock - остаток стал бы отрицательным.
// В обоих случаях остаток не меняется.
func (s *StockUseCase) AdjustStock(ctx context.Context, req *AdjustStockReq) (*domain.Product, error) {
	const op = "StockUseCase.AdjustStock"

	if req.ProductID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	var product *domain.Product
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.productRepo.AdjustStock(ctx, req.ProductID, req.Delta)
		if err != nil {
			return err
		}

		if req.Delta == 0 {
			return nil
		}

		event, err := NewOutboxEvent(StockAdjusted, product.ID, StockAdjustedEvent{
			ProductID: product.ID,
			Delta:     req.Delta,
			Stock:     product.Stock,
		})
		if err != nil {
			return err
		}

		_, err = s.outboxRepo.Create(ctx, event)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Delta < 0 && product.IsLowStock(s.lowStockThreshold) {
		s.notifyLowStock(product)
	}

	return product, nil
}

// Wait дожидается завершения отправленных уведомлений.
func (s *StockUseCase) Wait() {
	s.wg.Wait()
}

func (s *StockUseCase) notifyLowStock(product *domain.Product) {
	const op = "StockUseCase.notifyLowStock"

	if s.notifier == nil {
		return
	}

	n := &LowStockNotification{
		ProductID:  product.ID,
		Name:       product.Name,
		Stock:      product.Stock,
		Threshold:  s.lowStockThreshold,
		OccurredAt: time.Now().UTC(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		bgCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyLowStock(bgCtx, n); err != nil {
			s.logger.Warnf("Failed to send low stock notification for product %d: %v", n.ProductID, e.Wrap(op, err))
		}
	}()
}
