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

const settingsColumns = `name, icon, created_at, updated_at`

// SettingsRepo хранит единственную запись настроек магазина.
type SettingsRepo struct {
	pool *pgxpool.Pool
	conv converter.SettingsConverter
}

func NewSettingsRepo(pool *pgxpool.Pool, conv converter.SettingsConverter) *SettingsRepo {
	return &SettingsRepo{pool: pool, conv: conv}
}

func (s *SettingsRepo) Get(ctx context.Context) (*domain.ShopSettings, error) {
	return s.getOne(ctx, `SELECT `+settingsColumns+` FROM shop_settings WHERE id`)
}

// CreateDefault создаёт запись, если её ещё нет, и возвращает текущие настройки.
func (s *SettingsRepo) CreateDefault(ctx context.Context, settings *domain.ShopSettings) (*domain.ShopSettings, error) {
	query := `INSERT INTO shop_settings (id, name, icon) VALUES (true, $1, $2) ON CONFLICT (id) DO NOTHING`

	if _, err := tr.FromCtx(ctx, s.pool).Exec(ctx, query, settings.Name, settings.Icon); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.Get(ctx)
}

func (s *SettingsRepo) Upsert(ctx context.Context, settings *domain.ShopSettings) (*domain.ShopSettings, error) {
	query := `
		INSERT INTO shop_settings (id, name, icon) VALUES (true, $1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, icon = EXCLUDED.icon, updated_at = now()
		RETURNING ` + settingsColumns

	return s.getOne(ctx, query, settings.Name, settings.Icon)
}

func (s *SettingsRepo) getOne(ctx context.Context, query string, args ...any) (*domain.ShopSettings, error) {
	rows, err := tr.FromCtx(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.SettingsModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrSettingsNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&model), nil
}
