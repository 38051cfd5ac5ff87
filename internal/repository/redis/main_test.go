package redis

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/pkg/clients"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testClient *clients.RedisClient

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "redis container unavailable, skipping integration tests: %v\n", err)
		os.Exit(m.Run())
	}

	code := func() int {
		defer func() { _ = container.Terminate(ctx) }()

		endpoint, err := container.Endpoint(ctx, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "endpoint: %v\n", err)
			return 1
		}

		testClient = clients.NewRedisClient(&cfg.RedisCfg{
			Addr:        endpoint,
			MaxRetries:  1,
			DialTimeout: 5 * time.Second,
			Timeout:     3 * time.Second,
		})
		defer testClient.Close()

		return m.Run()
	}()

	os.Exit(code)
}

func requireRedis(t *testing.T) *clients.RedisClient {
	t.Helper()
	if testClient == nil {
		t.Skip("integration test: Redis is not available")
	}

	if err := testClient.Client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	return testClient
}
