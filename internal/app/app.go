package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/shop-admin/internal/cfg"
	v1Grpc "github.com/DRSN-tech/shop-admin/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/shop-admin/internal/delivery/v1/http"
	"github.com/DRSN-tech/shop-admin/internal/infrastructure/auth"
	"github.com/DRSN-tech/shop-admin/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/shop-admin/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/shop-admin/internal/repository/minio"
	"github.com/DRSN-tech/shop-admin/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/shop-admin/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-admin/internal/repository/redis"
	redisConv "github.com/DRSN-tech/shop-admin/internal/repository/redis/converter"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/DRSN-tech/shop-admin/pkg/clients"
	"github.com/DRSN-tech/shop-admin/pkg/closer"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/DRSN-tech/shop-admin/pkg/postgres"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jimlawless/whereami"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	shutdownTimeout    = 15 * time.Second
	forcedCloseTimeout = 3 * time.Second
	startupTimeout     = 10 * time.Second
	kafkaTopicTimeout  = 10 * time.Second
)

// App — собранное приложение: HTTP и gRPC серверы, воркер outbox и их зависимости.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	outboxWorker *kafka.OutboxWorker
	db           *postgres.PgDatabase

	// bgCtx отменяется при остановке и гасит фоновые задачи.
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewApp подключается к внешним зависимостям и собирает слои приложения.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (_ *App, err error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:      cfg,
		logger:   log,
		closer:   closer.NewCloser(forcedCloseTimeout),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}
	a.closer.Add("background tasks", func(context.Context) error {
		bgCancel()
		return nil
	})

	defer func() {
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if cerr := a.closer.Close(ctx); cerr != nil {
				log.Warnf("cleanup after failed start: %v", cerr)
			}
		}
	}()

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// PostgreSQL
	db, err := initPGDB(startCtx, log, cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	// Redis
	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })
	if err := redisClient.Ping(startCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// MinIO
	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(startCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Kafka
	producer := kafka.NewProducer(log, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	if err := producer.EnsureTopic(kafkaTopicTimeout); err != nil {
		log.Warnf("kafka topic check failed, outbox will retry publishing: %v", err)
	}

	// Репозитории
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverterImpl{})
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverterImpl{})
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConverterImpl{})
	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.UserConverterImpl{})
	settingsRepo := pgdb.NewSettingsRepo(db.Pool, pgdbConv.SettingsConverterImpl{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverterImpl{})
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductConverterImpl{}, redisConv.CategoryConverterImpl{}, cfg.Redis, log)
	sessionRepo := redis.NewSessionRepo(redisClient, redisConv.SessionConverterImpl{})
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	// Инфраструктура
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, bgCtx)
	a.closer.Add("minio cleanup", imagesInfra.WaitForCleanup)

	trManager := manager.Must(trmpgx.NewDefaultFactory(db.Pool))
	validate := validator.New()

	// Сценарии
	ucs := v1Http.UseCases{
		Category: usecase.NewCategoryUC(categoryRepo, outboxRepo, cacheRepo, trManager, log),
		Product:  usecase.NewProductUC(productRepo, categoryRepo, outboxRepo, cacheRepo, trManager, validate, log),
		Order:    usecase.NewOrderUC(orderRepo),
		User:     usecase.NewUserUC(userRepo, validate),
		Settings: usecase.NewSettingsUC(settingsRepo, validate),
		Image:    usecase.NewImageUC(imagesInfra),
		Auth: usecase.NewAuthUC(
			auth.NewJWTVerifier(cfg.Auth.TokenSecret),
			userRepo,
			sessionRepo,
			cfg.Auth.SessionTTL,
			cfg.Auth.AdminEmails,
			log,
		),
	}

	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn, pgdb.OutboxChannel, cfg.Kafka.BatchLimit)
	a.closer.Add("outbox worker", a.outboxWorker.Stop)

	// gRPC
	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.closer.Add("gRPC server", a.grpcSrv.Stop)

	// HTTP
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := chi.NewRouter()
	v1Http.NewRouter(r, cfg.Auth, registry, log).Init(ucs)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("HTTP server", a.httpSrv.Stop)

	return a, nil
}

// Run запускает серверы и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	a.outboxWorker.Start(a.bgCtx)

	healthCtx, stopHealth := context.WithCancel(a.bgCtx)
	a.closer.Add("health watcher", func(context.Context) error {
		stopHealth()
		return nil
	})
	go a.grpcSrv.WatchHealth(healthCtx, a.db)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	_ = a.logger.Sync()

	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
