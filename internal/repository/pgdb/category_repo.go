package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const categoryColumns = `id, name, description, parent_id, parent_for, used_count, properties, created_at, updated_at`

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// List возвращает все категории: сначала самые используемые, при равенстве по имени.
func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY used_count DESC, name ASC`

	rows, err := tr.FromCtx(ctx, c.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToArrEntity(models), nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return c.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

// LockByID читает категорию с блокировкой строки до конца транзакции.
func (c *CategoryRepo) LockByID(ctx context.Context, id int64) (*domain.Category, error) {
	return c.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, id)
}

func (c *CategoryRepo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND id <> $2)`

	var exists bool
	if err := tr.FromCtx(ctx, c.pool).QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

// ExistingIDs возвращает те идентификаторы из ids, для которых категория существует.
func (c *CategoryRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := tr.FromCtx(ctx, c.pool).Query(ctx, `SELECT id FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	existing, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return existing, nil
}

// IsDescendant проверяет, лежит ли candidateID в поддереве ancestorID.
func (c *CategoryRepo) IsDescendant(ctx context.Context, ancestorID int64, candidateID int64) (bool, error) {
	query := `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_id, 1 AS depth FROM categories WHERE id = $2
			UNION ALL
			SELECT c.id, c.parent_id, a.depth + 1
			FROM categories c
			JOIN ancestors a ON c.id = a.parent_id
			WHERE a.depth < 1000
		)
		SELECT EXISTS (SELECT 1 FROM ancestors WHERE parent_id = $1);
	`

	var descendant bool
	if err := tr.FromCtx(ctx, c.pool).QueryRow(ctx, query, ancestorID, candidateID).Scan(&descendant); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return descendant, nil
}

// Create вставляет категорию с нулевыми счётчиками.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	model := c.conv.ToModel(category)
	query := `
		INSERT INTO categories (name, description, parent_id, properties)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns

	created, err := c.getOne(ctx, query, model.Name, model.Description, model.ParentID, model.Properties)
	if err != nil {
		return nil, c.mapWriteErr(err)
	}

	return created, nil
}

// Update меняет только имя, описание, родителя и свойства.
func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	model := c.conv.ToModel(category)
	query := `
		UPDATE categories
		SET name = $2, description = $3, parent_id = $4, properties = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryColumns

	updated, err := c.getOne(ctx, query, model.ID, model.Name, model.Description, model.ParentID, model.Properties)
	if err != nil {
		return nil, c.mapWriteErr(err)
	}

	return updated, nil
}

// Delete удаляет категорию. Дочерние категории отвязываются внешним ключом ON DELETE SET NULL.
func (c *CategoryRepo) Delete(ctx context.Context, id int64) (*domain.Category, error) {
	deleted, err := c.getOne(ctx, `DELETE FROM categories WHERE id = $1 RETURNING `+categoryColumns, id)
	if err != nil {
		if postgresForeignKey(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryInUse)
		}
		return nil, err
	}

	return deleted, nil
}

// AdjustUsage атомарно меняет used_count на delta, не опускаясь ниже нуля.
func (c *CategoryRepo) AdjustUsage(ctx context.Context, id int64, delta int64) (*domain.Category, error) {
	query := `
		UPDATE categories
		SET used_count = GREATEST(used_count + $2, 0), updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryColumns

	return c.getOne(ctx, query, id, delta)
}

// RefreshParentFor пересчитывает parent_for по фактическому числу дочерних категорий.
func (c *CategoryRepo) RefreshParentFor(ctx context.Context, id int64) error {
	query := `
		UPDATE categories
		SET parent_for = (SELECT count(*) FROM categories child WHERE child.parent_id = $1)
		WHERE id = $1
	`

	if _, err := tr.FromCtx(ctx, c.pool).Exec(ctx, query, id); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CategoryRepo) getOne(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	rows, err := tr.FromCtx(ctx, c.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.CategoryModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// mapWriteErr превращает нарушения ограничений в ошибки предметной области.
func (c *CategoryRepo) mapWriteErr(err error) error {
	switch {
	case postgresDuplicate(err):
		return e.Wrap(whereami.WhereAmI(), e.ErrCategoryExists)
	case postgresForeignKey(err):
		return e.Wrap(whereami.WhereAmI(), e.ErrParentNotFound)
	default:
		return err
	}
}
