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

const userSelect = `
	SELECT u.id, u.name, u.email, u.image, COALESCE(up.role, 'User') AS role, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN user_profiles up ON up.email = u.email`

// UserRepo хранит пользователей и их роли (таблица user_profiles).
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{pool: pool, conv: conv}
}

func (u *UserRepo) ListByRoles(ctx context.Context, roles []string) ([]domain.User, error) {
	return u.list(ctx, userSelect+` WHERE COALESCE(up.role, 'User') = ANY($1) ORDER BY u.email`, roles)
}

// ListAll возвращает всех пользователей; без профиля роль User.
func (u *UserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	return u.list(ctx, userSelect+` ORDER BY u.email`)
}

func (u *UserRepo) SetRole(ctx context.Context, email string, role string) (*domain.User, error) {
	query := `
		INSERT INTO user_profiles (email, role) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, updated_at = now()
	`

	if _, err := tr.FromCtx(ctx, u.pool).Exec(ctx, query, email, role); err != nil {
		if postgresForeignKey(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.getByEmail(ctx, email)
}

// Upsert сохраняет данные, пришедшие от провайдера идентификации.
func (u *UserRepo) Upsert(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	query := `
		INSERT INTO users (email, name, image) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, image = EXCLUDED.image, updated_at = now()
	`

	if _, err := tr.FromCtx(ctx, u.pool).Exec(ctx, query, identity.Email, identity.Name, identity.Picture); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.getByEmail(ctx, identity.Email)
}

func (u *UserRepo) getByEmail(ctx context.Context, email string) (*domain.User, error) {
	rows, err := tr.FromCtx(ctx, u.pool).Query(ctx, userSelect+` WHERE u.email = $1`, email)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[converter.UserModel])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrUserNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}

func (u *UserRepo) list(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := tr.FromCtx(ctx, u.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByName[converter.UserModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToArrEntity(models), nil
}
