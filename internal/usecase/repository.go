package usecase

import (
	"context"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// TxManager выполняет fn в транзакции; репозитории берут её из ctx.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoWithSettings(ctx context.Context, s trm.Settings, fn func(ctx context.Context) error) error
}

type ProductConsumptionRepository interface {
	Create(ctx context.Context, pc *domain.ProductConsumption) (*domain.ProductConsumption, error)
	GetByID(ctx context.Context, id int64) (*domain.ProductConsumption, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.ProductConsumption, error)
	Update(ctx context.Context, pc *domain.ProductConsumption) (*domain.ProductConsumption, error)
	Delete(ctx context.Context, id int64) error
	ListByClient(ctx context.Context, clientID int64) ([]domain.ProductConsumption, error)
	ListAll(ctx context.Context) ([]domain.ProductConsumption, error)
}

type ServiceConsumptionRepository interface {
	Create(ctx context.Context, sc *domain.ServiceConsumption) (*domain.ServiceConsumption, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceConsumption, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.ServiceConsumption, error)
	Update(ctx context.Context, sc *domain.ServiceConsumption) (*domain.ServiceConsumption, error)
	Delete(ctx context.Context, id int64) error
	ListByClient(ctx context.Context, clientID int64) ([]domain.ServiceConsumption, error)
	ListAll(ctx context.Context) ([]domain.ServiceConsumption, error)
}

type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// AdjustStock атомарно применяет delta, только если остаток останется неотрицательным.
	AdjustStock(ctx context.Context, id int64, delta int64) (*domain.Product, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
}

type PetRepository interface {
	ListByClient(ctx context.Context, clientID int64) ([]domain.Pet, error)
	List(ctx context.Context) ([]domain.Pet, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	// MarkAsPending возвращает событие в очередь после временной ошибки доставки.
	MarkAsPending(ctx context.Context, id int64) error
}
