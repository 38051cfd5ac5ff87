package http

import (
	"net/http"

	_ "github.com/DRSN-tech/shop-admin/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// UseCases — набор сценариев, которые обслуживает HTTP-слой.
type UseCases struct {
	Category usecase.CategoryUC
	Product  usecase.ProductUC
	Order    usecase.OrderUC
	User     usecase.UserUC
	Settings usecase.SettingsUC
	Image    usecase.ImageUC
	Auth     usecase.AuthUC
}

type Router struct {
	router   *chi.Mux
	logger   logger.Logger
	authCfg  *cfg.AuthCfg
	registry *prometheus.Registry
}

func NewRouter(router *chi.Mux, authCfg *cfg.AuthCfg, registry *prometheus.Registry, logger logger.Logger) *Router {
	return &Router{router: router, authCfg: authCfg, registry: registry, logger: logger}
}

func (r *Router) Init(uc UseCases) {
	metrics := NewMetrics(r.registry)

	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(AccessLog(r.logger.Zap()))
	r.router.Use(Recover(r.logger))
	r.router.Use(metrics.Middleware)

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, "ok", nil)
	})
	r.router.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		authHandler := NewAuthHandler(uc.Auth, r.authCfg, r.logger)
		v1.Post("/auth/session", authHandler.signIn)
		v1.Delete("/auth/session", authHandler.signOut)

		v1.Group(func(private chi.Router) {
			private.Use(RequireSession(uc.Auth, r.authCfg.CookieName, r.logger))

			private.Get("/auth/session", authHandler.me)
			registerCategoryRoutes(private, NewCategoryHandler(uc.Category, r.logger))
			registerProductRoutes(private, NewProductHandler(uc.Product, r.logger))
			registerAdminRoutes(private, NewAdminHandler(uc.Order, uc.User, uc.Settings, r.logger), r.logger)
			private.Post("/images", NewImageHandler(uc.Image, r.logger).uploadImages)
		})
	})
}

func registerCategoryRoutes(router chi.Router, h *CategoryHandler) {
	router.Route("/categories", func(c chi.Router) {
		c.Get("/", h.getCategories)
		c.Post("/", h.createCategory)
		c.Put("/", h.updateCategory)
		c.Delete("/", h.deleteCategory)
		c.Patch("/", h.incrementUsage)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.getProducts)
		pr.Post("/", h.createProduct)
		pr.Put("/", h.updateProduct)
		pr.Delete("/", h.deleteProduct)
	})
	router.Get("/statics", h.getStatics)
}

func registerAdminRoutes(router chi.Router, h *AdminHandler, log logger.Logger) {
	router.Get("/orders", h.getOrders)
	router.Get("/clients", h.getClients)
	router.Get("/users", h.getAdmins)
	router.With(RequireRole(domain.RoleAdmin, log)).Put("/users", h.setRole)
	router.Get("/settings", h.getSettings)
	router.Put("/settings", h.updateSettings)
}
