package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName — имя сервиса в протоколе grpc.health.v1.
const ServiceName = "shop.admin.v1.ShopAdmin"

// Pinger — зависимость, от доступности которой зависит статус здоровья.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	cfg    *cfg.GRPCConfig
	logger logger.Logger
}

func NewGRPCServer(cfg *cfg.GRPCConfig, logger logger.Logger) *GRPCServer {
	s := &GRPCServer{
		server: grpc.NewServer(grpc.ChainUnaryInterceptor(unaryInterceptor(logger))),
		health: health.NewServer(),
		cfg:    cfg,
		logger: logger,
	}

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	s.setServing(false)

	return s
}

func (s *GRPCServer) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	lis, err := net.Listen(s.cfg.NetworkMode, addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(lis)
}

// Serve обслуживает уже открытый listener.
func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// WatchHealth периодически пингует зависимость и выставляет статус SERVING или NOT_SERVING.
// Блокируется до отмены ctx.
func (s *GRPCServer) WatchHealth(ctx context.Context, dep Pinger) {
	interval := s.cfg.HealthInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval/2)
		defer cancel()

		if err := dep.Ping(pingCtx); err != nil {
			s.logger.Warnf("health check failed: %v", err)
			s.setServing(false)
			return
		}
		s.setServing(true)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

func (s *GRPCServer) setServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *GRPCServer) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infof("gRPC server stopped gracefully")
		return nil
	case <-ctx.Done():
		s.server.Stop()
		s.logger.Warnf("gRPC server forced to stop after timeout")
		return ctx.Err()
	}
}

// unaryInterceptor логирует вызовы, переводит ошибки в статусы и перехватывает паники.
func unaryInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorf(fmt.Errorf("panic: %v", rec), "%s", info.FullMethod)
				err = GRPCErrorResponse(fmt.Errorf("panic: %v", rec))
			}
		}()

		resp, err = handler(ctx, req)
		if err != nil {
			log.Warnf("%s failed in %s: %v", info.FullMethod, time.Since(start), err)
			return nil, GRPCErrorResponse(err)
		}

		log.Debugf("%s done in %s", info.FullMethod, time.Since(start))
		return resp, nil
	}
}
