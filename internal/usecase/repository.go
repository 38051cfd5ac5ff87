package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	LockByID(ctx context.Context, id int64) (*domain.Category, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	IsDescendant(ctx context.Context, ancestorID int64, candidateID int64) (bool, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) (*domain.Category, error)
	AdjustUsage(ctx context.Context, id int64, delta int64) (*domain.Category, error)
	RefreshParentFor(ctx context.Context, id int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	LockByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
}

type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
}

type UserRepository interface {
	ListByRoles(ctx context.Context, roles []string) ([]domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	SetRole(ctx context.Context, email string, role string) (*domain.User, error)
	Upsert(ctx context.Context, identity *domain.Identity) (*domain.User, error)
}

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.ShopSettings, error)
	CreateDefault(ctx context.Context, settings *domain.ShopSettings) (*domain.ShopSettings, error)
	Upsert(ctx context.Context, settings *domain.ShopSettings) (*domain.ShopSettings, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64, reason string) error
	ReleaseStale(ctx context.Context, olderThanSeconds int) (int64, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// CacheRepository кэширует категории и товары. Каждое удаление увеличивает поколение кэша,
// а Set* записывают данные, только если поколение не изменилось с момента чтения.
type CacheRepository interface {
	GetCategories(ctx context.Context) ([]domain.Category, error)
	CategoriesVersion(ctx context.Context) (int64, error)
	SetCategories(ctx context.Context, version int64, categories []domain.Category) error
	DeleteCategories(ctx context.Context) error
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	ProductsVersion(ctx context.Context) (int64, error)
	SetProducts(ctx context.Context, version int64, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
