package pgdb

import (
	"context"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{pool: pool, conv: conv}
}

// List возвращает заказы по возрастанию updated_at.
func (o *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, line_items, name, email, country, city, address, phone_number,
			postal_code, sender_email, is_paid, created_at, updated_at
		FROM orders
		ORDER BY updated_at ASC, id ASC
	`

	rows, err := tr.FromCtx(ctx, o.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.OrderModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToArrEntity(models), nil
}
