package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	adminSession    = "admin-session"
	subAdminSession = "sub-admin-session"
)

type fakeCategoryUC struct {
	list      func() ([]domain.Category, error)
	get       func(id int64) (*domain.Category, error)
	create    func(req *usecase.CreateCategoryReq) (*domain.Category, error)
	update    func(req *usecase.UpdateCategoryReq) (*domain.Category, error)
	delete    func(id int64) (*domain.Category, error)
	increment func(id int64) (*domain.Category, error)
}

func (f *fakeCategoryUC) List(context.Context) ([]domain.Category, error) { return f.list() }
func (f *fakeCategoryUC) Get(_ context.Context, id int64) (*domain.Category, error) {
	return f.get(id)
}
func (f *fakeCategoryUC) Create(_ context.Context, req *usecase.CreateCategoryReq) (*domain.Category, error) {
	return f.create(req)
}
func (f *fakeCategoryUC) Update(_ context.Context, req *usecase.UpdateCategoryReq) (*domain.Category, error) {
	return f.update(req)
}
func (f *fakeCategoryUC) Delete(_ context.Context, id int64) (*domain.Category, error) {
	return f.delete(id)
}
func (f *fakeCategoryUC) IncrementUsage(_ context.Context, id int64) (*domain.Category, error) {
	return f.increment(id)
}

type fakeProductUC struct {
	create         func(req *usecase.ProductReq) (*domain.Product, error)
	update         func(id int64, req *usecase.ProductReq) (*domain.Product, error)
	delete         func(id int64) (*domain.Product, error)
	get            func(id int64) (*domain.Product, error)
	list           func() ([]domain.Product, error)
	listByCategory func(id int64) ([]domain.Product, error)
}

func (f *fakeProductUC) Create(_ context.Context, req *usecase.ProductReq) (*domain.Product, error) {
	return f.create(req)
}
func (f *fakeProductUC) Update(_ context.Context, id int64, req *usecase.ProductReq) (*domain.Product, error) {
	return f.update(id, req)
}
func (f *fakeProductUC) Delete(_ context.Context, id int64) (*domain.Product, error) {
	return f.delete(id)
}
func (f *fakeProductUC) Get(_ context.Context, id int64) (*domain.Product, error) { return f.get(id) }
func (f *fakeProductUC) List(context.Context) ([]domain.Product, error)           { return f.list() }
func (f *fakeProductUC) ListByCategory(_ context.Context, id int64) ([]domain.Product, error) {
	return f.listByCategory(id)
}

type fakeOrderUC struct{}

func (fakeOrderUC) List(context.Context) ([]domain.Order, error) {
	return []domain.Order{{ID: 1, Name: "Bob", LineItems: []byte(`[{"sku":"a"}]`)}}, nil
}

type fakeUserUC struct {
	setRole func(req *usecase.SetRoleReq) (*domain.User, error)
}

func (fakeUserUC) ListAdmins(context.Context) ([]domain.User, error) {
	return []domain.User{{Email: "root@shop.io", Role: domain.RoleAdmin}}, nil
}
func (fakeUserUC) ListClients(context.Context) ([]domain.User, error) {
	return []domain.User{{Email: "bob@shop.io", Role: domain.RoleUser}}, nil
}
func (f fakeUserUC) SetRole(_ context.Context, req *usecase.SetRoleReq) (*domain.User, error) {
	return f.setRole(req)
}

type fakeSettingsUC struct{}

func (fakeSettingsUC) Get(context.Context) (*domain.ShopSettings, error) {
	return domain.DefaultShopSettings(), nil
}
func (fakeSettingsUC) Update(_ context.Context, req *usecase.UpdateSettingsReq) (*domain.ShopSettings, error) {
	if req.Name == "" || req.Icon == "" {
		return nil, e.ErrSettingsRequired
	}
	return &domain.ShopSettings{Name: req.Name, Icon: req.Icon}, nil
}

type fakeImageUC struct {
	got *usecase.UploadProductImagesReq
}

func (f *fakeImageUC) Upload(_ context.Context, req *usecase.UploadProductImagesReq) (*usecase.UploadProductImagesRes, error) {
	f.got = req
	res := &usecase.UploadProductImagesRes{}
	if req.Main != nil {
		res.MainImageURL = "http://cdn/main"
	}
	for range req.Others {
		res.OtherImageURLs = append(res.OtherImageURLs, "http://cdn/other")
	}
	return res, nil
}

type fakeAuthUC struct {
	signedOut string
}

func (f *fakeAuthUC) SignIn(_ context.Context, idToken string) (*domain.Session, error) {
	switch idToken {
	case "":
		return nil, e.ErrInvalidToken
	case "client-token":
		return nil, e.ErrAccessDenied
	}
	return &domain.Session{ID: "new-session", Email: "root@shop.io", Role: domain.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthUC) Authenticate(_ context.Context, sessionID string) (*domain.Session, error) {
	switch sessionID {
	case adminSession:
		return &domain.Session{ID: sessionID, Email: "root@shop.io", Role: domain.RoleAdmin}, nil
	case subAdminSession:
		return &domain.Session{ID: sessionID, Email: "help@shop.io", Role: domain.RoleSubAdmin}, nil
	}
	return nil, e.ErrUnauthenticated
}

func (f *fakeAuthUC) SignOut(_ context.Context, sessionID string) error {
	f.signedOut = sessionID
	return nil
}

type testEnv struct {
	handler  http.Handler
	category *fakeCategoryUC
	product  *fakeProductUC
	user     *fakeUserUC
	image    *fakeImageUC
	auth     *fakeAuthUC
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		category: &fakeCategoryUC{},
		product:  &fakeProductUC{},
		user:     &fakeUserUC{},
		image:    &fakeImageUC{},
		auth:     &fakeAuthUC{},
	}

	mux := chi.NewRouter()
	NewRouter(mux, &cfg.AuthCfg{CookieName: "admin_session"}, prometheus.NewRegistry(), logger.NewNop()).Init(UseCases{
		Category: env.category,
		Product:  env.product,
		Order:    fakeOrderUC{},
		User:     env.user,
		Settings: fakeSettingsUC{},
		Image:    env.image,
		Auth:     env.auth,
	})
	env.handler = mux

	return env
}

// do выполняет запрос от имени сессии (пустая строка означает анонимный запрос).
func (env *testEnv) do(method, target, session, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set("Authorization", "Bearer "+session)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}
