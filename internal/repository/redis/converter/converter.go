package converter

import "github.com/DRSN-tech/shop-admin/internal/domain"

type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type CategoryConverter interface {
	ToArrRedisModel(entities []domain.Category) []CategoryRedisModel
	ToArrEntity(models []CategoryRedisModel) []domain.Category
}

type SessionConverter interface {
	ToRedisModel(entity *domain.Session) *SessionRedisModel
	ToEntity(model *SessionRedisModel) *domain.Session
}

type ProductConverterImpl struct{}

func (ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
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
		Categories:    entity.Categories,
		Tags:          entity.Tags,
		Image:         entity.Image,
		OtherImages:   entity.OtherImages,
		CreatedAt:     entity.CreatedAt,
		UpdatedAt:     entity.UpdatedAt,
	}
}

func (ProductConverterImpl) ToEntity(model *ProductRedisModel) *domain.Product {
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
		Categories:    model.Categories,
		Tags:          model.Tags,
		Image:         model.Image,
		OtherImages:   model.OtherImages,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

type CategoryConverterImpl struct{}

func (CategoryConverterImpl) ToArrRedisModel(entities []domain.Category) []CategoryRedisModel {
	result := make([]CategoryRedisModel, 0, len(entities))
	for _, c := range entities {
		properties := make([]PropertyRedisModel, 0, len(c.Properties))
		for _, p := range c.Properties {
			properties = append(properties, PropertyRedisModel{Key: p.Key, Values: p.Values})
		}

		result = append(result, CategoryRedisModel{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Parent:      c.Parent,
			ParentFor:   c.ParentFor,
			UsedCount:   c.UsedCount,
			Properties:  properties,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return result
}

func (CategoryConverterImpl) ToArrEntity(models []CategoryRedisModel) []domain.Category {
	result := make([]domain.Category, 0, len(models))
	for _, m := range models {
		properties := make([]domain.Property, 0, len(m.Properties))
		for _, p := range m.Properties {
			values := p.Values
			if values == nil {
				values = []string{}
			}
			properties = append(properties, domain.Property{Key: p.Key, Values: values})
		}

		result = append(result, domain.Category{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Parent:      m.Parent,
			ParentFor:   m.ParentFor,
			UsedCount:   m.UsedCount,
			Properties:  properties,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		})
	}
	return result
}

type SessionConverterImpl struct{}

func (SessionConverterImpl) ToRedisModel(entity *domain.Session) *SessionRedisModel {
	return &SessionRedisModel{
		ID:        entity.ID,
		Email:     entity.Email,
		Name:      entity.Name,
		Role:      entity.Role,
		CreatedAt: entity.CreatedAt,
		ExpiresAt: entity.ExpiresAt,
	}
}

func (SessionConverterImpl) ToEntity(model *SessionRedisModel) *domain.Session {
	return &domain.Session{
		ID:        model.ID,
		Email:     model.Email,
		Name:      model.Name,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
		ExpiresAt: model.ExpiresAt,
	}
}
