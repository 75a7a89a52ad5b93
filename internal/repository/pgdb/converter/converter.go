package converter

import (
	"github.com/DRSN-tech/petshop-backend/internal/domain"
	"github.com/DRSN-tech/petshop-backend/internal/usecase"
)

// ProductConsumptionConverter преобразует ProductConsumption между domain и моделью PostgreSQL.
type ProductConsumptionConverter struct{}

func (ProductConsumptionConverter) ToModel(entity *domain.ProductConsumption) *ProductConsumptionModel {
	return &ProductConsumptionModel{
		ID:         entity.ID,
		ClientID:   entity.ClientID,
		ProductID:  entity.ProductID,
		Quantity:   entity.Quantity,
		UnitPrice:  entity.UnitPrice,
		Discount:   entity.Discount,
		Total:      entity.Total,
		ConsumedAt: entity.ConsumedAt,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}

func (ProductConsumptionConverter) ToEntity(model *ProductConsumptionModel) *domain.ProductConsumption {
	return &domain.ProductConsumption{
		ID:         model.ID,
		ClientID:   model.ClientID,
		ProductID:  model.ProductID,
		Quantity:   model.Quantity,
		UnitPrice:  model.UnitPrice,
		Discount:   model.Discount,
		Total:      model.Total,
		ConsumedAt: model.ConsumedAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func (c ProductConsumptionConverter) ToArrEntity(models []*ProductConsumptionModel) []domain.ProductConsumption {
	res := make([]domain.ProductConsumption, 0, len(models))
	for _, m := range models {
		res = append(res, *c.ToEntity(m))
	}
	return res
}

// ServiceConsumptionConverter преобразует ServiceConsumption между domain и моделью PostgreSQL.
type ServiceConsumptionConverter struct{}

func (ServiceConsumptionConverter) ToModel(entity *domain.ServiceConsumption) *ServiceConsumptionModel {
	return &ServiceConsumptionModel{
		ID:         entity.ID,
		ClientID:   entity.ClientID,
		ServiceID:  entity.ServiceID,
		UnitPrice:  entity.UnitPrice,
		Discount:   entity.Discount,
		Total:      entity.Total,
		ConsumedAt: entity.ConsumedAt,
		Notes:      entity.Notes,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}

func (ServiceConsumptionConverter) ToEntity(model *ServiceConsumptionModel) *domain.ServiceConsumption {
	return &domain.ServiceConsumption{
		ID:         model.ID,
		ClientID:   model.ClientID,
		ServiceID:  model.ServiceID,
		UnitPrice:  model.UnitPrice,
		Discount:   model.Discount,
		Total:      model.Total,
		ConsumedAt: model.ConsumedAt,
		Notes:      model.Notes,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func (c ServiceConsumptionConverter) ToArrEntity(models []*ServiceConsumptionModel) []domain.ServiceConsumption {
	res := make([]domain.ServiceConsumption, 0, len(models))
	for _, m := range models {
		res = append(res, *c.ToEntity(m))
	}
	return res
}

// ReferenceConverter преобразует справочные сущности: клиентов, товары, услуги, питомцев.
type ReferenceConverter struct{}

func (ReferenceConverter) ProductToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:        model.ID,
		Name:      model.Name,
		Price:     model.Price,
		Stock:     model.Stock,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (ReferenceConverter) ClientToEntity(model *ClientModel) *domain.Client {
	return &domain.Client{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
	}
}

func (ReferenceConverter) ServiceToEntity(model *ServiceModel) *domain.Service {
	return &domain.Service{
		ID:    model.ID,
		Name:  model.Name,
		Price: model.Price,
	}
}

func (ReferenceConverter) PetToEntity(model *PetModel) *domain.Pet {
	return &domain.Pet{
		ID:       model.ID,
		ClientID: model.ClientID,
		Name:     model.Name,
		Type:     model.Type,
		Breed:    model.Breed,
	}
}

// OutboxEventConverter преобразует OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	res := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		res = append(res, c.ToEntity(m))
	}
	return res
}
