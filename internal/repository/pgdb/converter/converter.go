package converter

import (
	"encoding/json"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
)

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
	ToArrEntity(models []CategoryModel) []domain.Category
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

type OrderConverter interface {
	ToArrEntity(models []OrderModel) []domain.Order
}

type UserConverter interface {
	ToEntity(model *UserModel) *domain.User
	ToArrEntity(models []UserModel) []domain.User
}

type SettingsConverter interface {
	ToEntity(model *SettingsModel) *domain.ShopSettings
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []OutboxEventModel) []*usecase.OutboxEvent
}

type CategoryConverterImpl struct{}

func (CategoryConverterImpl) ToModel(entity *domain.Category) *CategoryModel {
	properties := make([]PropertyModel, 0, len(entity.Properties))
	for _, p := range entity.Properties {
		values := p.Values
		if values == nil {
			values = []string{}
		}
		properties = append(properties, PropertyModel{Key: p.Key, Values: values})
	}

	return &CategoryModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		ParentID:    entity.Parent,
		ParentFor:   entity.ParentFor,
		UsedCount:   entity.UsedCount,
		Properties:  properties,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	properties := make([]domain.Property, 0, len(model.Properties))
	for _, p := range model.Properties {
		values := p.Values
		if values == nil {
			values = []string{}
		}
		properties = append(properties, domain.Property{Key: p.Key, Values: values})
	}

	return &domain.Category{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Parent:      model.ParentID,
		ParentFor:   model.ParentFor,
		UsedCount:   model.UsedCount,
		Properties:  properties,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (c CategoryConverterImpl) ToArrEntity(models []CategoryModel) []domain.Category {
	result := make([]domain.Category, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}
	return result
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:            entity.ID,
		Title:         entity.Title,
		Description:   entity.Description,
		UnitCount:     entity.UnitCount,
		Price:         entity.Price,
		DiscountPrice: entity.DiscountPrice,
		IsInDiscount:  entity.IsInDiscount,
		ProductType:   entity.ProductType,
		Quantity:      entity.Quantity,
		IsUnlimited:   entity.IsUnlimited,
		Sold:          entity.Sold,
		Categories:    nonNilIDs(entity.Categories),
		Tags:          nonNilStrings(entity.Tags),
		Image:         entity.Image,
		OtherImages:   nonNilStrings(entity.OtherImages),
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:            model.ID,
		Title:         model.Title,
		Description:   model.Description,
		UnitCount:     model.UnitCount,
		Price:         model.Price,
		DiscountPrice: model.DiscountPrice,
		IsInDiscount:  model.IsInDiscount,
		ProductType:   model.ProductType,
		Quantity:      model.Quantity,
		IsUnlimited:   model.IsUnlimited,
		Sold:          model.Sold,
		Categories:    nonNilIDs(model.Categories),
		Tags:          nonNilStrings(model.Tags),
		Image:         model.Image,
		OtherImages:   nonNilStrings(model.OtherImages),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func (c ProductConverterImpl) ToArrEntity(models []ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}
	return result
}

type OrderConverterImpl struct{}

func (OrderConverterImpl) ToArrEntity(models []OrderModel) []domain.Order {
	result := make([]domain.Order, 0, len(models))
	for _, m := range models {
		lineItems := json.RawMessage(m.LineItems)
		if len(lineItems) == 0 {
			lineItems = json.RawMessage("[]")
		}

		result = append(result, domain.Order{
			ID:          m.ID,
			LineItems:   lineItems,
			Name:        m.Name,
			Email:       m.Email,
			Country:     m.Country,
			City:        m.City,
			Address:     m.Address,
			PhoneNumber: m.PhoneNumber,
			PostalCode:  m.PostalCode,
			SenderEmail: m.SenderEmail,
			IsPaid:      m.IsPaid,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		})
	}
	return result
}

type UserConverterImpl struct{}

func (UserConverterImpl) ToEntity(model *UserModel) *domain.User {
	return &domain.User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Image:     model.Image,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (c UserConverterImpl) ToArrEntity(models []UserModel) []domain.User {
	result := make([]domain.User, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}
	return result
}

type SettingsConverterImpl struct{}

func (SettingsConverterImpl) ToEntity(model *SettingsModel) *domain.ShopSettings {
	return &domain.ShopSettings{
		Name:      model.Name,
		Icon:      model.Icon,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

type OutboxEventConverterImpl struct{}

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:            entity.ID,
		EventID:       entity.EventID,
		EventType:     entity.EventType,
		AggregateType: entity.AggregateType,
		AggregateID:   entity.AggregateID,
		Payload:       entity.Payload,
		Status:        string(entity.Status),
		CreatedAt:     entity.CreatedAt,
		ProcessedAt:   entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:            model.ID,
		EventID:       model.EventID,
		EventType:     model.EventType,
		AggregateType: model.AggregateType,
		AggregateID:   model.AggregateID,
		Payload:       model.Payload,
		Status:        usecase.OutboxStatus(model.Status),
		CreatedAt:     model.CreatedAt,
		ProcessedAt:   model.ProcessedAt,
	}
}

func (c OutboxEventConverterImpl) ToArrEntity(models []OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for i := range models {
		result = append(result, c.ToEntity(&models[i]))
	}
	return result
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
