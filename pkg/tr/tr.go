package tr

import (
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
)

// Querier — общий интерфейс pgxpool.Pool и открытой транзакции.
type Querier = trmpgx.Tr

// Manager открывает транзакцию и кладёт её в контекст для репозиториев.
type Manager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// FromCtx возвращает транзакцию из контекста, если её открыл менеджер, иначе пул.
func FromCtx(ctx context.Context, db Querier) Querier {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, db)
}
