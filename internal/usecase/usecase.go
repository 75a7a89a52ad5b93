package usecase

import (
	"context"

	"github.com/DRSN-tech/petshop-backend/internal/domain"
)

type LedgerUC interface {
	CreateProductConsumption(ctx context.Context, req *CreateProductConsumptionReq) (*domain.ProductConsumption, error)
	UpdateProductConsumption(ctx context.Context, req *UpdateProductConsumptionReq) (*domain.ProductConsumption, error)
	DeleteProductConsumption(ctx context.Context, id int64) error
	GetProductConsumption(ctx context.Context, id int64) (*domain.ProductConsumption, error)
	ListProductConsumptionsByClient(ctx context.Context, clientID int64) ([]domain.ProductConsumption, error)

	CreateServiceConsumption(ctx context.Context, req *CreateServiceConsumptionReq) (*domain.ServiceConsumption, error)
	UpdateServiceConsumption(ctx context.Context, req *UpdateServiceConsumptionReq) (*domain.ServiceConsumption, error)
	DeleteServiceConsumption(ctx context.Context, id int64) error
	GetServiceConsumption(ctx context.Context, id int64) (*domain.ServiceConsumption, error)
	ListServiceConsumptionsByClient(ctx context.Context, clientID int64) ([]domain.ServiceConsumption, error)
}

type StockUC interface {
	AdjustStock(ctx context.Context, req *AdjustStockReq) (*domain.Product, error)
}

type StatisticsUC interface {
	TopClientsByQuantity(ctx context.Context) ([]domain.ClientRanking, error)
	MostConsumedItems(ctx context.Context) ([]domain.ItemConsumption, error)
	ConsumptionByPetTypeAndBreed(ctx context.Context) ([]domain.PetSegment, error)
	TopClientsByValue(ctx context.Context) ([]domain.ClientRanking, error)
	Snapshot(ctx context.Context) (*domain.StatisticsSnapshot, error)
}
