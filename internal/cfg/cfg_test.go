package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "shop")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "shop")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("AUTH_TOKEN_SECRET", "token-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, 5*time.Second, cfg.Http.ReadTimeout)
	assert.Equal(t, "localhost", cfg.Db.Host)
	assert.Equal(t, "file://db/migrations", cfg.Db.MigrationsPath)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "catalog-events", cfg.Kafka.Topic)
	assert.Equal(t, 3*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, time.Minute, cfg.Redis.CategoryTTL)
	assert.Equal(t, "http://minio:9000", cfg.Minio.PublicURL)
	assert.Equal(t, "admin_session", cfg.Auth.CookieName)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Empty(t, cfg.Auth.AdminEmails)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("WRITE_TIMEOUT", "7s")
	t.Setenv("MINIO_PUBLIC_URL", "https://cdn.example.com/")
	t.Setenv("AUTH_ADMIN_EMAILS", " owner@shop.test , ,ops@shop.test")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Http.Port)
	assert.Equal(t, 7*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, "https://cdn.example.com", cfg.Minio.PublicURL)
	assert.Equal(t, []string{"owner@shop.test", "ops@shop.test"}, cfg.Auth.AdminEmails)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"postgres user", "POSTGRES_USER"},
		{"postgres password", "POSTGRES_PASSWORD"},
		{"kafka brokers", "KAFKA_BROKERS"},
		{"token secret", "AUTH_TOKEN_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "HTTP_READ_TIMEOUT", "soon"},
		{"bad int", "REDIS_DB_ID", "zero"},
		{"bad bool", "MINIO_USE_SSL", "maybe"},
		{"non-positive upload limit", "UPLOAD_IMAGES_LIMIT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
