package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type switchPinger struct {
	down atomic.Bool
}

func (p *switchPinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("db is down")
	}
	return nil
}

func startServer(t *testing.T) (*GRPCServer, healthpb.HealthClient) {
	t.Helper()

	srv := NewGRPCServer(&cfg.GRPCConfig{HealthInterval: 20 * time.Millisecond}, logger.NewNop())
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	return srv, healthpb.NewHealthClient(conn)
}

func servingStatus(client healthpb.HealthClient) healthpb.HealthCheckResponse_ServingStatus {
	res, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN
	}
	return res.GetStatus()
}

func TestHealthFollowsDependency(t *testing.T) {
	srv, client := startServer(t)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(client))

	pinger := &switchPinger{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.WatchHealth(ctx, pinger)

	assert.Eventually(t, func() bool {
		return servingStatus(client) == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	pinger.down.Store(true)
	assert.Eventually(t, func() bool {
		return servingStatus(client) == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGRPCErrorResponse(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{e.ErrCategoryNameRequired, codes.InvalidArgument},
		{e.Wrap("op", e.ErrCategoryExists), codes.AlreadyExists},
		{e.ErrCategoryNotFound, codes.NotFound},
		{e.ErrCategoryInUse, codes.FailedPrecondition},
		{e.ErrUnauthenticated, codes.Unauthenticated},
		{e.ErrAccessDenied, codes.PermissionDenied},
		{errors.New("boom"), codes.Internal},
		{status.Error(codes.Unavailable, "later"), codes.Unavailable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(GRPCErrorResponse(tt.err)), tt.err.Error())
	}
	assert.NoError(t, GRPCErrorResponse(nil))
}
