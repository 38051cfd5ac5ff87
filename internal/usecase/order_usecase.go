package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
)

// OrderUseCase только читает заказы, созданные внешним checkout.
type OrderUseCase struct {
	orderRepo OrderRepository
}

func NewOrderUC(orderRepo OrderRepository) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo}
}

// List возвращает заказы по возрастанию updatedAt.
func (o *OrderUseCase) List(ctx context.Context) ([]domain.Order, error) {
	const op = "OrderUseCase.List"

	orders, err := o.orderRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}
