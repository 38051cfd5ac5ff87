package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	identities map[string]domain.Identity
}

func (f *fakeVerifier) Verify(token string) (*domain.Identity, error) {
	identity, ok := f.identities[token]
	if !ok {
		return nil, e.ErrInvalidToken
	}
	return &identity, nil
}

func newAuthFixture(users ...domain.User) (*AuthUseCase, *memUserRepo, *memSessionRepo) {
	verifier := &fakeVerifier{identities: map[string]domain.Identity{
		"admin-token":  {Email: "boss@shop.test", Name: "Boss"},
		"editor-token": {Email: "editor@shop.test", Name: "Editor"},
		"client-token": {Email: "client@shop.test", Name: "Client"},
	}}
	users = append(users, domain.User{Email: "editor@shop.test", Role: domain.RoleSubAdmin})
	userRepo := newMemUserRepo(users...)
	sessions := newMemSessionRepo()

	uc := NewAuthUC(verifier, userRepo, sessions, time.Hour, []string{"Boss@Shop.test"}, logger.NewNop())
	return uc, userRepo, sessions
}

func TestAuthUseCase_SignIn(t *testing.T) {
	uc, _, _ := newAuthFixture()
	ctx := context.Background()

	session, err := uc.SignIn(ctx, "editor-token")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, domain.RoleSubAdmin, session.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)

	got, err := uc.Authenticate(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "editor@shop.test", got.Email)
}

func TestAuthUseCase_SignIn_BootstrapAdmin(t *testing.T) {
	uc, users, _ := newAuthFixture()

	session, err := uc.SignIn(context.Background(), "admin-token")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleAdmin, session.Role)
	admins, err := users.ListByRoles(context.Background(), []string{domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "boss@shop.test", admins[0].Email)
}

func TestAuthUseCase_SignIn_Rejections(t *testing.T) {
	uc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := uc.SignIn(ctx, "client-token")
	assert.ErrorIs(t, err, e.ErrAccessDenied)
	assert.ErrorIs(t, err, e.ErrForbidden)

	_, err = uc.SignIn(ctx, "forged")
	assert.ErrorIs(t, err, e.ErrInvalidToken)

	_, err = uc.SignIn(ctx, "  ")
	assert.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	uc, _, sessions := newAuthFixture()
	ctx := context.Background()

	_, err := uc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, e.ErrUnauthenticated)

	_, err = uc.Authenticate(ctx, "missing")
	assert.ErrorIs(t, err, e.ErrUnauthenticated)

	require.NoError(t, sessions.Create(ctx, &domain.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}, time.Hour))
	_, err = uc.Authenticate(ctx, "old")
	assert.ErrorIs(t, err, e.ErrUnauthenticated)
}

func TestAuthUseCase_SignOut(t *testing.T) {
	uc, _, _ := newAuthFixture()
	ctx := context.Background()

	session, err := uc.SignIn(ctx, "editor-token")
	require.NoError(t, err)

	require.NoError(t, uc.SignOut(ctx, session.ID))
	_, err = uc.Authenticate(ctx, session.ID)
	assert.ErrorIs(t, err, e.ErrUnauthenticated)

	assert.NoError(t, uc.SignOut(ctx, ""))
}
