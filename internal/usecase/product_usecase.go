package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/DRSN-tech/shop-admin/pkg/tr"
	"github.com/go-playground/validator/v10"
)

// ProductUseCase реализует каталог товаров. Привязки к категориям поддерживают usedCount в актуальном состоянии.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	cacheRepo    CacheRepository
	trManager    tr.Manager
	validate     *validator.Validate
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	trManager tr.Manager,
	validate *validator.Validate,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		cacheRepo:    cacheRepo,
		trManager:    trManager,
		validate:     validate,
		logger:       logger,
	}
}

// Create сохраняет товар и увеличивает usedCount каждой привязанной категории.
func (p *ProductUseCase) Create(ctx context.Context, req *ProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Create"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := newProduct(req)

	var created *domain.Product
	err := p.trManager.Do(ctx, func(ctx context.Context) error {
		if err := p.ensureCategories(ctx, product.Categories); err != nil {
			return err
		}

		var err error
		created, err = p.productRepo.Create(ctx, product)
		if err != nil {
			return err
		}

		if err := p.adjustUsage(ctx, created.Categories, 1); err != nil {
			return err
		}

		return p.publish(ctx, EventProductCreated, created)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, created.ID)
	return created, nil
}

// Update изменяет товар. Для добавленных категорий usedCount растёт, для убранных уменьшается.
func (p *ProductUseCase) Update(ctx context.Context, id int64, req *ProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Update"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := newProduct(req)
	product.ID = id

	var updated *domain.Product
	err := p.trManager.Do(ctx, func(ctx context.Context) error {
		current, err := p.productRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}

		if err := p.ensureCategories(ctx, product.Categories); err != nil {
			return err
		}

		updated, err = p.productRepo.Update(ctx, product)
		if err != nil {
			return err
		}

		added, removed := domain.CategoryDiff(current.Categories, updated.Categories)
		if err := p.adjustUsage(ctx, added, 1); err != nil {
			return err
		}
		if err := p.adjustUsage(ctx, removed, -1); err != nil {
			return err
		}

		return p.publish(ctx, EventProductUpdated, updated)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, id)
	return updated, nil
}

// Delete удаляет товар и уменьшает usedCount его категорий.
func (p *ProductUseCase) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.Delete"

	var deleted *domain.Product
	err := p.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = p.productRepo.Delete(ctx, id)
		if err != nil {
			return err
		}

		if err := p.adjustUsage(ctx, deleted.Categories, -1); err != nil {
			return err
		}

		return p.publish(ctx, EventProductDeleted, deleted)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, id)
	return deleted, nil
}

// Get ищет товар сначала в кэше, затем в БД.
func (p *ProductUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.Get"

	cached, err := p.cacheRepo.GetProducts(ctx, []int64{id})
	if err != nil {
		p.logger.Warnf("Failed to read product from cache: %v", e.Wrap(op, err))
	} else if product, ok := cached[id]; ok {
		return &product, nil
	}

	version, versionErr := p.cacheRepo.ProductsVersion(ctx)

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if versionErr != nil {
		p.logger.Warnf("Failed to read products cache version: %v", e.Wrap(op, versionErr))
		return product, nil
	}

	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheOpTimeout)
	defer cancel()
	if err := p.cacheRepo.SetProducts(cacheCtx, version, []domain.Product{*product}); err != nil {
		p.logger.Warnf("Failed to cache product: %v", e.Wrap(op, err))
	}

	return product, nil
}

func (p *ProductUseCase) List(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.List"

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// ListByCategory возвращает товары категории. Пустой результат считается ошибкой NotFound.
func (p *ProductUseCase) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	const op = "ProductUseCase.ListByCategory"

	products, err := p.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(products) == 0 {
		return nil, e.Wrap(op, e.ErrNoProductsForCategory)
	}

	return products, nil
}

// validateProduct проверяет обязательные поля товара.
func (p *ProductUseCase) validateProduct(req *ProductReq) error {
	if err := p.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fe := range validationErrs {
				if fe.Field() == "Title" || fe.Field() == "Price" {
					return e.ErrProductFieldsRequired
				}
			}
			return e.ErrInvalidProduct
		}
		return err
	}

	return nil
}

func (p *ProductUseCase) ensureCategories(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	existing, err := p.categoryRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(existing) != len(ids) {
		return e.ErrUnknownCategory
	}

	return nil
}

func (p *ProductUseCase) adjustUsage(ctx context.Context, ids []int64, delta int64) error {
	for _, id := range ids {
		if _, err := p.categoryRepo.AdjustUsage(ctx, id, delta); err != nil {
			return err
		}
	}

	return nil
}

func (p *ProductUseCase) publish(ctx context.Context, eventType string, product *domain.Product) error {
	event, err := NewOutboxEvent(eventType, AggregateProduct, product.ID, productPayload(product))
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, event)
	return err
}

// invalidate сбрасывает кэш товара и списка категорий, так как usedCount мог измениться.
func (p *ProductUseCase) invalidate(ctx context.Context, id int64) {
	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheOpTimeout)
	defer cancel()

	if err := p.cacheRepo.DeleteProducts(cacheCtx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to delete products: %v", err)
	}
	if err := p.cacheRepo.DeleteCategories(cacheCtx); err != nil {
		p.logger.Warnf("Failed to invalidate categories cache: %v", err)
	}
}

func newProduct(req *ProductReq) *domain.Product {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	otherImages := req.OtherImages
	if otherImages == nil {
		otherImages = []string{}
	}

	return &domain.Product{
		Title:         req.Title,
		Description:   req.Description,
		UnitCount:     req.UnitCount,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		IsInDiscount:  req.IsInDiscount,
		ProductType:   req.ProductType,
		Quantity:      req.Quantity,
		IsUnlimited:   req.IsUnlimited,
		Categories:    domain.UniqueIDs(req.Categories),
		Tags:          tags,
		Image:         req.Image,
		OtherImages:   otherImages,
	}
}

func productPayload(product *domain.Product) map[string]any {
	categories := make([]any, 0, len(product.Categories))
	for _, id := range product.Categories {
		categories = append(categories, id)
	}

	return map[string]any{
		"id":             product.ID,
		"title":          product.Title,
		"price":          product.Price,
		"discount_price": product.DiscountPrice,
		"is_in_discount": product.IsInDiscount,
		"quantity":       product.Quantity,
		"is_unlimited":   product.IsUnlimited,
		"categories":     categories,
	}
}
