package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

type Config struct {
	Minio  *MinIOCfg
	Http   *HTTPConfig
	Grpc   *GRPCConfig
	Db     *PGDBCfg
	Redis  *RedisCfg
	Kafka  *KafkaCfg
	Auth   *AuthCfg
	Logger *LoggerCfg
}

type LoggerCfg struct {
	Level       string
	Development bool
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	BatchLimit        int
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	PublicURL         string // Базовый адрес, по которому изображения отдаются клиентам
	UploadImagesLimit int    // Лимит на одновременные загрузки в S3
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GRPCConfig struct {
	Port           string
	NetworkMode    string
	HealthInterval time.Duration
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ProductTTL  time.Duration
	CategoryTTL time.Duration
}

type AuthCfg struct {
	TokenSecret  string // Общий секрет для проверки ID-токенов провайдера
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
	AdminEmails  []string // Адреса, которые получают роль admin при входе
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Переменные из файла .env подхватываются, если файл существует.
func Load() (*Config, error) {
	_ = godotenv.Load()

	db, err := loadPGDBCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	grpc, err := loadGRPCConfig()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	auth, err := loadAuthCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	logger, err := loadLoggerCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:  minio,
		Http:   http,
		Grpc:   grpc,
		Db:     db,
		Redis:  redis,
		Kafka:  kafka,
		Auth:   auth,
		Logger: logger,
	}, nil
}

func loadLoggerCfg() (*LoggerCfg, error) {
	dev, err := strconv.ParseBool(getEnvOrDefault("LOG_DEVELOPMENT", "false"))
	if err != nil {
		return nil, e.Wrap("LOG_DEVELOPMENT", err)
	}

	return &LoggerCfg{
		Level:       getEnvOrDefault("LOG_LEVEL", "info"),
		Development: dev,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultBatchLimit        = 10
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := getEnvOrDefault("KAFKA_TOPIC", "catalog-events")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	batchLimit, err := parseIntEnv("OUTBOX_BATCH_LIMIT", defaultBatchLimit)
	if err != nil {
		return nil, e.Wrap("OUTBOX_BATCH_LIMIT", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		BatchLimit:        batchLimit,
	}, nil
}

func loadMinIOCfg() (*MinIOCfg, error) {
	const (
		defaultUseSSL            = false
		defaultEndpoint          = "minio:9000"
		defaultBucket            = "shop-images"
		defaultUploadImagesLimit = 4
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		return nil, e.Wrap("MINIO_USE_SSL", err)
	}

	limit, err := parseIntEnv("UPLOAD_IMAGES_LIMIT", defaultUploadImagesLimit)
	if err != nil {
		return nil, e.Wrap("UPLOAD_IMAGES_LIMIT", err)
	}
	if limit <= 0 {
		return nil, e.Wrap("UPLOAD_IMAGES_LIMIT", e.ErrIncorrectEnvVariable)
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint)
	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		PublicURL:         strings.TrimRight(getEnvOrDefault("MINIO_PUBLIC_URL", scheme+"://"+endpoint), "/"),
		UploadImagesLimit: limit,
	}, nil
}

func loadHTTPConfig() (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		return nil, e.Wrap("HTTP_READ_TIMEOUT", err)
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		return nil, e.Wrap("HTTP_WRITE_TIMEOUT", err)
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		return nil, e.Wrap("KEEP_ALIVE", err)
	}

	return &HTTPConfig{
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadGRPCConfig() (*GRPCConfig, error) {
	const (
		defaultPort           = "8091"
		defaultNetworkMode    = "tcp"
		defaultHealthInterval = 10 * time.Second
	)

	interval, err := parseDurationEnv("GRPC_HEALTH_INTERVAL", defaultHealthInterval)
	if err != nil {
		return nil, e.Wrap("GRPC_HEALTH_INTERVAL", err)
	}

	return &GRPCConfig{
		Port:           getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode:    getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
		HealthInterval: interval,
	}, nil
}

func loadPGDBCfg() (*PGDBCfg, error) {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMigrationsPath = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadRedisCfg() (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultProductTTL   = 3 * time.Minute
		defaultCategoryTTL  = time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		return nil, e.Wrap("REDIS_DB_ID", err)
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("MAX_RETRIES", err)
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		return nil, e.Wrap("DIAL_TIMEOUT", err)
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		return nil, e.Wrap("READ_TIMEOUT", err)
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		return nil, e.Wrap("WRITE_TIMEOUT", err)
	}

	productTTL, err := parseDurationEnv("PRODUCT_TTL", defaultProductTTL)
	if err != nil {
		return nil, e.Wrap("PRODUCT_TTL", err)
	}

	categoryTTL, err := parseDurationEnv("CATEGORY_TTL", defaultCategoryTTL)
	if err != nil {
		return nil, e.Wrap("CATEGORY_TTL", err)
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ProductTTL:  productTTL,
		CategoryTTL: categoryTTL,
	}, nil
}

func loadAuthCfg() (*AuthCfg, error) {
	const (
		defaultSessionTTL = 24 * time.Hour
		defaultCookieName = "admin_session"
	)

	secret := getEnv("AUTH_TOKEN_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}

	ttl, err := parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, e.Wrap("SESSION_TTL", err)
	}

	secure, err := strconv.ParseBool(getEnvOrDefault("COOKIE_SECURE", "true"))
	if err != nil {
		return nil, e.Wrap("COOKIE_SECURE", err)
	}

	var adminEmails []string
	for _, email := range strings.Split(getEnv("AUTH_ADMIN_EMAILS"), ",") {
		if email = strings.TrimSpace(email); email != "" {
			adminEmails = append(adminEmails, email)
		}
	}

	return &AuthCfg{
		TokenSecret:  secret,
		SessionTTL:   ttl,
		CookieName:   getEnvOrDefault("SESSION_COOKIE_NAME", defaultCookieName),
		CookieSecure: secure,
		AdminEmails:  adminEmails,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
