package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/go-playground/validator/v10"
)

type UserUseCase struct {
	userRepo UserRepository
	validate *validator.Validate
}

func NewUserUC(userRepo UserRepository, validate *validator.Validate) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		validate: validate,
	}
}

// ListAdmins возвращает пользователей с ролью admin или sub-admin.
func (u *UserUseCase) ListAdmins(ctx context.Context) ([]domain.User, error) {
	const op = "UserUseCase.ListAdmins"

	users, err := u.userRepo.ListByRoles(ctx, []string{domain.RoleAdmin, domain.RoleSubAdmin})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return users, nil
}

// ListClients возвращает всех пользователей; без профиля роль считается User.
func (u *UserUseCase) ListClients(ctx context.Context) ([]domain.User, error) {
	const op = "UserUseCase.ListClients"

	users, err := u.userRepo.ListAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return users, nil
}

func (u *UserUseCase) SetRole(ctx context.Context, req *SetRoleReq) (*domain.User, error) {
	const op = "UserUseCase.SetRole"

	req.Email = strings.TrimSpace(req.Email)
	if err := u.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && validationErrs[0].Field() == "Email" {
			return nil, e.Wrap(op, e.ErrEmailRequired)
		}
		return nil, e.Wrap(op, e.ErrInvalidRole)
	}

	user, err := u.userRepo.SetRole(ctx, req.Email, req.Role)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}
