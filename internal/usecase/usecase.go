package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-admin/internal/domain"
)

type CategoryUC interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error)
	Update(ctx context.Context, req *UpdateCategoryReq) (*domain.Category, error)
	Delete(ctx context.Context, id int64) (*domain.Category, error)
	IncrementUsage(ctx context.Context, id int64) (*domain.Category, error)
}

type ProductUC interface {
	Create(ctx context.Context, req *ProductReq) (*domain.Product, error)
	Update(ctx context.Context, id int64, req *ProductReq) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
}

type OrderUC interface {
	List(ctx context.Context) ([]domain.Order, error)
}

type UserUC interface {
	ListAdmins(ctx context.Context) ([]domain.User, error)
	ListClients(ctx context.Context) ([]domain.User, error)
	SetRole(ctx context.Context, req *SetRoleReq) (*domain.User, error)
}

type SettingsUC interface {
	Get(ctx context.Context) (*domain.ShopSettings, error)
	Update(ctx context.Context, req *UpdateSettingsReq) (*domain.ShopSettings, error)
}

type ImageUC interface {
	Upload(ctx context.Context, req *UploadProductImagesReq) (*UploadProductImagesRes, error)
}

type AuthUC interface {
	SignIn(ctx context.Context, idToken string) (*domain.Session, error)
	Authenticate(ctx context.Context, sessionID string) (*domain.Session, error)
	SignOut(ctx context.Context, sessionID string) error
}
