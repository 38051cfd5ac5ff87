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

const productSelect = `
	SELECT p.id, p.title, p.description, p.unit_count, p.price, p.discount_price, p.is_in_discount,
		p.product_type, p.quantity, p.is_unlimited, p.sold, p.tags, p.image, p.other_images,
		p.created_at, p.updated_at,
		ARRAY(
			SELECT pc.category_id FROM product_categories pc
			WHERE pc.product_id = p.id
			ORDER BY pc.position
		)::BIGINT[] AS categories
	FROM products p`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
// Привязки к категориям хранятся в product_categories.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (
			title, description, unit_count, price, discount_price, is_in_discount,
			product_type, quantity, is_unlimited, tags, image, other_images
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	var id int64
	err := tr.FromCtx(ctx, p.pool).QueryRow(ctx, query,
		model.Title, model.Description, model.UnitCount, model.Price, model.DiscountPrice, model.IsInDiscount,
		model.ProductType, model.Quantity, model.IsUnlimited, model.Tags, model.Image, model.OtherImages,
	).Scan(&id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.linkCategories(ctx, id, model.Categories); err != nil {
		return nil, err
	}

	return p.GetByID(ctx, id)
}

// Update перезаписывает поля товара и набор его категорий. Поле sold не меняется.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		UPDATE products SET
			title = $2, description = $3, unit_count = $4, price = $5, discount_price = $6,
			is_in_discount = $7, product_type = $8, quantity = $9, is_unlimited = $10,
			tags = $11, image = $12, other_images = $13, updated_at = now()
		WHERE id = $1
	`

	db := tr.FromCtx(ctx, p.pool)
	tag, err := db.Exec(ctx, query,
		model.ID, model.Title, model.Description, model.UnitCount, model.Price, model.DiscountPrice,
		model.IsInDiscount, model.ProductType, model.Quantity, model.IsUnlimited,
		model.Tags, model.Image, model.OtherImages,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	if _, err := db.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, model.ID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := p.linkCategories(ctx, model.ID, model.Categories); err != nil {
		return nil, err
	}

	return p.GetByID(ctx, model.ID)
}

// Delete удаляет товар и возвращает его вместе с категориями, к которым он был привязан.
// Строка блокируется до чтения категорий, поэтому параллельное удаление получит ErrProductNotFound.
func (p *ProductRepo) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := p.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tag, err := tr.FromCtx(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return product, nil
}

// LockByID блокирует строку товара до конца транзакции и читает его уже после получения блокировки,
// чтобы набор категорий отражал последнюю закоммиченную версию.
func (p *ProductRepo) LockByID(ctx context.Context, id int64) (*domain.Product, error) {
	var lockedID int64
	err := tr.FromCtx(ctx, p.pool).QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.GetByID(ctx, lockedID)
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	rows, err := tr.FromCtx(ctx, p.pool).Query(ctx, productSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// List возвращает товары, начиная с новых.
func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return p.list(ctx, productSelect+` ORDER BY p.created_at DESC, p.id DESC`)
}

func (p *ProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	query := productSelect + `
		WHERE EXISTS (
			SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = $1
		)
		ORDER BY p.created_at DESC, p.id DESC`

	return p.list(ctx, query, categoryID)
}

func (p *ProductRepo) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := tr.FromCtx(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func (p *ProductRepo) linkCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO product_categories (product_id, category_id, position)
		SELECT $1, c.id, c.ord
		FROM unnest($2::BIGINT[]) WITH ORDINALITY AS c(id, ord)
	`

	if _, err := tr.FromCtx(ctx, p.pool).Exec(ctx, query, productID, categoryIDs); err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrUnknownCategory)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
