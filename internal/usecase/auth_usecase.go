package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/google/uuid"
)

// AuthUseCase обменивает ID-токен провайдера на сессию админки.
type AuthUseCase struct {
	verifier    IdentityVerifier
	userRepo    UserRepository
	sessionRepo SessionRepository
	sessionTTL  time.Duration
	adminEmails map[string]struct{}
	logger      logger.Logger
}

func NewAuthUC(
	verifier IdentityVerifier,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	sessionTTL time.Duration,
	adminEmails []string,
	logger logger.Logger,
) *AuthUseCase {
	emails := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		emails[strings.ToLower(email)] = struct{}{}
	}

	return &AuthUseCase{
		verifier:    verifier,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		adminEmails: emails,
		logger:      logger,
	}
}

// SignIn проверяет токен, сохраняет пользователя и открывает сессию.
// Адреса из AUTH_ADMIN_EMAILS получают роль admin при первом входе.
func (a *AuthUseCase) SignIn(ctx context.Context, idToken string) (*domain.Session, error) {
	const op = "AuthUseCase.SignIn"

	if strings.TrimSpace(idToken) == "" {
		return nil, e.Wrap(op, e.ErrInvalidToken)
	}

	identity, err := a.verifier.Verify(idToken)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := a.userRepo.Upsert(ctx, identity)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, ok := a.adminEmails[strings.ToLower(user.Email)]; ok && user.Role != domain.RoleAdmin {
		user, err = a.userRepo.SetRole(ctx, user.Email, domain.RoleAdmin)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		a.logger.Infof("Granted admin role to bootstrap user %s", user.Email)
	}

	if !domain.CanAccessAdmin(user.Role) {
		return nil, e.Wrap(op, e.ErrAccessDenied)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(a.sessionTTL),
	}

	if err := a.sessionRepo.Create(ctx, session, a.sessionTTL); err != nil {
		return nil, e.Wrap(op, err)
	}

	return session, nil
}

// Authenticate возвращает активную сессию или ErrUnauthenticated.
func (a *AuthUseCase) Authenticate(ctx context.Context, sessionID string) (*domain.Session, error) {
	const op = "AuthUseCase.Authenticate"

	if sessionID == "" {
		return nil, e.Wrap(op, e.ErrUnauthenticated)
	}

	session, err := a.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, e.Wrap(op, e.ErrUnauthenticated)
	}

	return session, nil
}

func (a *AuthUseCase) SignOut(ctx context.Context, sessionID string) error {
	const op = "AuthUseCase.SignOut"

	if sessionID == "" {
		return nil
	}

	if err := a.sessionRepo.Delete(ctx, sessionID); err != nil && !errors.Is(err, e.ErrUnauthenticated) {
		return e.Wrap(op, err)
	}

	return nil
}
