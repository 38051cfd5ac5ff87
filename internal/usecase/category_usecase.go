package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/DRSN-tech/shop-admin/pkg/tr"
)

const cacheOpTimeout = 500 * time.Millisecond

// CategoryUseCase реализует справочник категорий: иерархию, счётчики использования и защиту от удаления.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	cacheRepo    CacheRepository
	trManager    tr.Manager
	logger       logger.Logger
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	trManager tr.Manager,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		cacheRepo:    cacheRepo,
		trManager:    trManager,
		logger:       logger,
	}
}

// List возвращает все категории, отсортированные по usedCount DESC, name ASC.
func (c *CategoryUseCase) List(ctx context.Context) ([]domain.Category, error) {
	const op = "CategoryUseCase.List"

	cached, err := c.cacheRepo.GetCategories(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, e.ErrCacheMiss) {
		c.logger.Warnf("Failed to read categories from cache: %v", e.Wrap(op, err))
	}

	// Поколение читается до БД: сброс кэша после этого момента отменит запись устаревшего списка.
	version, versionErr := c.cacheRepo.CategoriesVersion(ctx)

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if versionErr != nil {
		c.logger.Warnf("Failed to read categories cache version: %v", e.Wrap(op, versionErr))
		return categories, nil
	}

	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheOpTimeout)
	defer cancel()
	if err := c.cacheRepo.SetCategories(cacheCtx, version, categories); err != nil {
		c.logger.Warnf("Failed to cache categories: %v", e.Wrap(op, err))
	}

	return categories, nil
}

func (c *CategoryUseCase) Get(ctx context.Context, id int64) (*domain.Category, error) {
	const op = "CategoryUseCase.Get"

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}

// Create создаёт категорию с usedCount = 0. Счётчик parentFor родителя пересчитывается в той же транзакции.
func (c *CategoryUseCase) Create(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Create"

	name, err := domain.NormalizeCategoryName(req.Name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	properties, err := domain.NormalizeProperties(req.Properties)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.Category
	err = c.trManager.Do(ctx, func(ctx context.Context) error {
		if err := c.ensureNameFree(ctx, name, 0); err != nil {
			return err
		}

		if req.Parent != nil {
			if err := c.ensureParentExists(ctx, *req.Parent); err != nil {
				return err
			}
		}

		var err error
		created, err = c.categoryRepo.Create(ctx, domain.NewCategory(name, req.Description, req.Parent, properties))
		if err != nil {
			return err
		}

		if created.Parent != nil {
			if err := c.categoryRepo.RefreshParentFor(ctx, *created.Parent); err != nil {
				return err
			}
		}

		return c.publish(ctx, EventCategoryCreated, created)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidate(ctx)
	return created, nil
}

// Update меняет name, description, parent и properties. usedCount и parentFor не затрагиваются.
func (c *CategoryUseCase) Update(ctx context.Context, req *UpdateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.Update"

	name, err := domain.NormalizeCategoryName(req.Name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	properties, err := domain.NormalizeProperties(req.Properties)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var updated *domain.Category
	err = c.trManager.Do(ctx, func(ctx context.Context) error {
		if err := c.ensureNameFree(ctx, name, req.ID); err != nil {
			return err
		}

		current, err := c.categoryRepo.LockByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Parent != nil {
			if err := c.ensureValidParent(ctx, req.ID, *req.Parent); err != nil {
				return err
			}
		}

		next := *current
		next.Name = name
		next.Description = req.Description
		next.Parent = req.Parent
		next.Properties = properties

		updated, err = c.categoryRepo.Update(ctx, &next)
		if err != nil {
			return err
		}

		if !domain.SameParent(current.Parent, updated.Parent) {
			for _, parent := range []*int64{current.Parent, updated.Parent} {
				if parent == nil {
					continue
				}
				if err := c.categoryRepo.RefreshParentFor(ctx, *parent); err != nil {
					return err
				}
			}
		}

		return c.publish(ctx, EventCategoryUpdated, updated)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidate(ctx)
	return updated, nil
}

// Delete удаляет категорию, если она не используется продуктами, и возвращает удалённую запись.
func (c *CategoryUseCase) Delete(ctx context.Context, id int64) (*domain.Category, error) {
	const op = "CategoryUseCase.Delete"

	var deleted *domain.Category
	err := c.trManager.Do(ctx, func(ctx context.Context) error {
		current, err := c.categoryRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}

		if !current.CanBeDeleted() {
			return e.ErrCategoryInUse
		}

		deleted, err = c.categoryRepo.Delete(ctx, id)
		if err != nil {
			return err
		}

		if deleted.Parent != nil {
			if err := c.categoryRepo.RefreshParentFor(ctx, *deleted.Parent); err != nil {
				return err
			}
		}

		return c.publish(ctx, EventCategoryDeleted, deleted)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidate(ctx)
	return deleted, nil
}

// IncrementUsage атомарно увеличивает usedCount на единицу.
func (c *CategoryUseCase) IncrementUsage(ctx context.Context, id int64) (*domain.Category, error) {
	const op = "CategoryUseCase.IncrementUsage"

	var updated *domain.Category
	err := c.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		updated, err = c.categoryRepo.AdjustUsage(ctx, id, 1)
		if err != nil {
			return err
		}

		return c.publish(ctx, EventCategoryUsageBumped, updated)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidate(ctx)
	return updated, nil
}

func (c *CategoryUseCase) ensureNameFree(ctx context.Context, name string, excludeID int64) error {
	exists, err := c.categoryRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return e.ErrCategoryExists
	}

	return nil
}

func (c *CategoryUseCase) ensureParentExists(ctx context.Context, parentID int64) error {
	if _, err := c.categoryRepo.GetByID(ctx, parentID); err != nil {
		if errors.Is(err, e.ErrCategoryNotFound) {
			return e.ErrParentNotFound
		}
		return err
	}

	return nil
}

// ensureValidParent запрещает делать категорию собственным предком.
func (c *CategoryUseCase) ensureValidParent(ctx context.Context, id int64, parentID int64) error {
	if id == parentID {
		return e.ErrParentCycle
	}

	if err := c.ensureParentExists(ctx, parentID); err != nil {
		return err
	}

	descendant, err := c.categoryRepo.IsDescendant(ctx, id, parentID)
	if err != nil {
		return err
	}
	if descendant {
		return e.ErrParentCycle
	}

	return nil
}

func (c *CategoryUseCase) publish(ctx context.Context, eventType string, category *domain.Category) error {
	event, err := NewOutboxEvent(eventType, AggregateCategory, category.ID, categoryPayload(category))
	if err != nil {
		return err
	}

	_, err = c.outboxRepo.Create(ctx, event)
	return err
}

// invalidate сбрасывает кэш списка после коммита. Ошибка кэша только логируется.
func (c *CategoryUseCase) invalidate(ctx context.Context) {
	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheOpTimeout)
	defer cancel()

	if err := c.cacheRepo.DeleteCategories(cacheCtx); err != nil {
		c.logger.Warnf("Failed to invalidate categories cache: %v", err)
	}
}

func categoryPayload(category *domain.Category) map[string]any {
	properties := make([]any, 0, len(category.Properties))
	for _, p := range category.Properties {
		values := make([]any, 0, len(p.Values))
		for _, v := range p.Values {
			values = append(values, v)
		}
		properties = append(properties, map[string]any{"key": p.Key, "values": values})
	}

	payload := map[string]any{
		"id":          category.ID,
		"name":        category.Name,
		"parent_for":  category.ParentFor,
		"used_count":  category.UsedCount,
		"properties":  properties,
		"description": nil,
		"parent":      nil,
	}
	if category.Description != nil {
		payload["description"] = *category.Description
	}
	if category.Parent != nil {
		payload["parent"] = *category.Parent
	}

	return payload
}
