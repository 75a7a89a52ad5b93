package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/pkg/e"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
	"github.com/DRSN-tech/petshop-backend/pkg/tr"
	"github.com/shopspring/decimal"
)

// LedgerUseCase ведёт журнал потребления товаров и услуг.
// Каждое изменение записи сопровождается событием в outbox в той же транзакции.
type LedgerUseCase struct {
	trManager   TxManager
	productCons ProductConsumptionRepository
	serviceCons ServiceConsumptionRepository
	clientRepo  ClientRepository
	productRepo ProductRepository
	serviceRepo ServiceRepository
	outboxRepo  OutboxRepository
	statsCache  StatisticsCache
	logger      logger.Logger
}

func NewLedgerUC(
	trManager TxManager,
	productCons ProductConsumptionRepository,
	serviceCons ServiceConsumptionRepository,
	clientRepo ClientRepository,
	productRepo ProductRepository,
	serviceRepo ServiceRepository,
	outboxRepo OutboxRepository,
	statsCache StatisticsCache,
	logger logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		trManager:   trManager,
		productCons: productCons,
		serviceCons: serviceCons,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		serviceRepo: serviceRepo,
		outboxRepo:  outboxRepo,
		statsCache:  statsCache,
		logger:      logger,
	}
}

// CreateProductConsumption проверяет ссылки, считает итог и сохраняет запись.
func (l *LedgerUseCase) CreateProductConsumption(ctx context.Context, req *CreateProductConsumptionReq) (*domain.ProductConsumption, error) {
	const op = "LedgerUseCase.CreateProductConsumption"

	if err := validateIDs(req.ClientID, req.ProductID); err != nil {
		return nil, e.Wrap(op, err)
	}
	if req.Quantity <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidQuantity)
	}
	if !domain.ValidMoney(req.UnitPrice, req.Discount) {
		return nil, e.Wrap(op, e.ErrInvalidMoney)
	}

	pc := domain.NewProductConsumption(req.ClientID, req.ProductID, req.Quantity, req.UnitPrice, req.Discount, req.ConsumedAt)

	var created *domain.ProductConsumption
	err := l.trManager.Do(ctx, func(ctx context.Context) error {
		if err := l.ensureClient(ctx, pc.ClientID); err != nil {
			return err
		}
		if err := l.ensureProduct(ctx, pc.ProductID); err != nil {
			return err
		}

		var err error
		created, err = l.productCons.Create(ctx, pc)
		if err != nil {
			return err
		}

		return l.publish(ctx, ProductConsumptionCreated, created.ID, NewProductConsumptionEvent(created))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	l.invalidateStatistics(ctx, op)

	return created, nil
}

// UpdateProductConsumption применяет частичное обновление и пересчитывает итог.
// Запись блокируется на время транзакции.
func (l *LedgerUseCase) UpdateProductConsumption(ctx context.Context, req *UpdateProductConsumptionReq) (*domain.ProductConsumption, error) {
	const op = "LedgerUseCase.UpdateProductConsumption"

	if req.ID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	var updated *domain.ProductConsumption
	err := l.trManager.Do(ctx, func(ctx context.Context) error {
		current, err := l.productCons.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Patch.IsEmpty() {
			return e.ErrEmptyUpdate
		}
		if err := l.validateProductPatch(ctx, current, req.Patch); err != nil {
			return err
		}

		current.Apply(req.Patch)

		updated, err = l.productCons.Update(ctx, current)
		if err != nil {
			return err
		}

		return l.publish(ctx, ProductConsumptionUpdated, updated.ID, NewProductConsumptionEvent(updated))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	l.invalidateStatistics(ctx, op)

	return updated, nil
}

func (l *LedgerUseCase) DeleteProductConsumption(ctx context.Context, id int64) error {
	const op = "LedgerUseCase.DeleteProductConsumption"

	if id <= 0 {
		return e.Wrap(op, e.ErrInvalidID)
	}

	err := l.trManager.Do(ctx, func(ctx context.Context) error {
		if err := l.productCons.Delete(ctx, id); err != nil {
			return err
		}

		return l.publish(ctx, ProductConsumptionDeleted, id, DeletedEvent{ID: id})
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	l.invalidateStatistics(ctx, op)

	return nil
}

func (l *LedgerUseCase) GetProductConsumption(ctx context.Context, id int64) (*domain.ProductConsumption, error) {
	const op = "LedgerUseCase.GetProductConsumption"

	if id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	pc, err := l.productCons.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return pc, nil
}

// ListProductConsumptionsByClient возвращает записи клиента по возрастанию времени потребления.
func (l *LedgerUseCase) ListProductConsumptionsByClient(ctx context.Context, clientID int64) ([]domain.ProductConsumption, error) {
	const op = "LedgerUseCase.ListProductConsumptionsByClient"

	if clientID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	var list []domain.ProductConsumption
	err := l.trManager.DoWithSettings(ctx, tr.ReadOnlySettings(), func(ctx context.Context) error {
		if err := l.ensureClient(ctx, clientID); err != nil {
			return err
		}

		var err error
		list, err = l.productCons.ListByClient(ctx, clientID)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return list, nil
}

// CreateServiceConsumption проверяет ссылки, считает итог и сохраняет запись.
func (l *LedgerUseCase) CreateServiceConsumption(ctx context.Context, req *CreateServiceConsumptionReq) (*domain.ServiceConsumption, error) {
	const op = "LedgerUseCase.CreateServiceConsumption"

	if err := validateIDs(req.ClientID, req.ServiceID); err != nil {
		return nil, e.Wrap(op, err)
	}
	if !domain.ValidMoney(req.UnitPrice, req.Discount) {
		return nil, e.Wrap(op, e.ErrInvalidMoney)
	}

	sc := domain.NewServiceConsumption(req.ClientID, req.ServiceID, req.UnitPrice, req.Discount, req.ConsumedAt, req.Notes)

	var created *domain.ServiceConsumption
	err := l.trManager.Do(ctx, func(ctx context.Context) error {
		if err := l.ensureClient(ctx, sc.ClientID); err != nil {
			return err
		}
		if err := l.ensureService(ctx, sc.ServiceID); err != nil {
			return err
		}

		var err error
		created, err = l.serviceCons.Create(ctx, sc)
		if err != nil {
			return err
		}

		return l.publish(ctx, ServiceConsumptionCreated, created.ID, NewServiceConsumptionEvent(created))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	l.invalidateStatistics(ctx, op)

	return created, nil
}

func (l *LedgerUseCase) UpdateServiceConsumption(ctx context.Context, req *UpdateServiceConsumptionReq) (*domain.ServiceConsumption, error) {
	const op = "LedgerUseCase.UpdateServiceConsumption"

	if req.ID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	var updated *domain.ServiceConsumption
	err := l.trManager.Do(ctx, func(ctx context.Context) error {
		current, err := l.serviceCons.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Patch.IsEmpty() {
			return e.ErrEmptyUpdate
		}
		if err := l.validateServicePatch(ctx, current, req.Patch); err != nil {
			return err
		}

		current.Apply(req.Patch)

		updated, err = l.serviceCons.Update(ctx, current)
		if err != nil {
			return err
		}

		return l.publish(ctx, ServiceConsumptionUpdated, updated.ID, NewServiceConsumptionEvent(updated))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	l.invalidateStatistics(ctx, op)

	return updated, nil
}

func (l *LedgerUseCase) DeleteServiceConsumption(ctx context.Context, id int64) error {
	const op = "LedgerUseCase.DeleteServiceConsumption"

	if id <= 0 {
		return e.Wrap(op, e.ErrInvalidID)
	}

	err := l.trManager.Do(ctx, func(ctx context.Context) error {
		if err := l.serviceCons.Delete(ctx, id); err != nil {
			return err
		}

		return l.publish(ctx, ServiceConsumptionDeleted, id, DeletedEvent{ID: id})
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	l.invalidateStatistics(ctx, op)

	return nil
}

func (l *LedgerUseCase) GetServiceConsumption(ctx context.Context, id int64) (*domain.ServiceConsumption, error) {
	const op = "LedgerUseCase.GetServiceConsumption"

	if id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	sc, err := l.serviceCons.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return sc, nil
}

func (l *LedgerUseCase) ListServiceConsumptionsByClient(ctx context.Context, clientID int64) ([]domain.ServiceConsumption, error) {
	const op = "LedgerUseCase.ListServiceConsumptionsByClient"

	if clientID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	var list []domain.ServiceConsumption
	err := l.trManager.DoWithSettings(ctx, tr.ReadOnlySettings(), func(ctx context.Context) error {
		if err := l.ensureClient(ctx, clientID); err != nil {
			return err
		}

		var err error
		list, err = l.serviceCons.ListByClient(ctx, clientID)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return list, nil
}

// HELPERS

func validateIDs(ids ...int64) error {
	for _, id := range ids {
		if id <= 0 {
			return e.ErrInvalidID
		}
	}
	return nil
}

func validatePatchMoney(amounts ...*decimal.Decimal) error {
	for _, a := range amounts {
		if a != nil && !domain.ValidMoney(*a) {
			return e.ErrInvalidMoney
		}
	}
	return nil
}

// validateProductPatch проверяет только изменённые поля.
func (l *LedgerUseCase) validateProductPatch(ctx context.Context, current *domain.ProductConsumption, p domain.ProductConsumptionPatch) error {
	if p.Quantity != nil && *p.Quantity <= 0 {
		return e.ErrInvalidQuantity
	}
	if err := validatePatchMoney(p.UnitPrice, p.Discount); err != nil {
		return err
	}
	if p.ClientID != nil && *p.ClientID != current.ClientID {
		if err := l.ensureClient(ctx, *p.ClientID); err != nil {
			return err
		}
	}
	if p.ProductID != nil && *p.ProductID != current.ProductID {
		if err := l.ensureProduct(ctx, *p.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func (l *LedgerUseCase) validateServicePatch(ctx context.Context, current *domain.ServiceConsumption, p domain.ServiceConsumptionPatch) error {
	if err := validatePatchMoney(p.UnitPrice, p.Discount); err != nil {
		return err
	}
	if p.ClientID != nil && *p.ClientID != current.ClientID {
		if err := l.ensureClient(ctx, *p.ClientID); err != nil {
			return err
		}
	}
	if p.ServiceID != nil && *p.ServiceID != current.ServiceID {
		if err := l.ensureService(ctx, *p.ServiceID); err != nil {
			return err
		}
	}
	return nil
}

// ensureClient превращает «не найдено» репозитория в ошибку конкретной сущности.
func (l *LedgerUseCase) ensureClient(ctx context.Context, id int64) error {
	if id <= 0 {
		return e.ErrInvalidID
	}
	if _, err := l.clientRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.ErrClientNotFound
		}
		return err
	}
	return nil
}

func (l *LedgerUseCase) ensureProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return e.ErrInvalidID
	}
	if _, err := l.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.ErrProductNotFound
		}
		return err
	}
	return nil
}

func (l *LedgerUseCase) ensureService(ctx context.Context, id int64) error {
	if id <= 0 {
		return e.ErrInvalidID
	}
	if _, err := l.serviceRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return e.ErrServiceNotFound
		}
		return err
	}
	return nil
}

func (l *LedgerUseCase) publish(ctx context.Context, eventType OutboxEventType, aggregateID int64, payload any) error {
	event, err := NewOutboxEvent(eventType, aggregateID, payload)
	if err != nil {
		return err
	}

	_, err = l.outboxRepo.Create(ctx, event)
	return err
}

// invalidateStatistics сбрасывает кэш отчётов после коммита.
// Ошибка кэша не отменяет уже сохранённое изменение.
func (l *LedgerUseCase) invalidateStatistics(ctx context.Context, op string) {
	if err := l.statsCache.InvalidateViews(ctx); err != nil {
		l.logger.Warnf("Failed to invalidate statistics cache: %v", e.Wrap(op, err))
	}
}
