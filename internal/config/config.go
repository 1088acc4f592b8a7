// Package config loads gateway settings from an env file and the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported SQL drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// Supported upload storage backends.
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Config holds every setting used by the docstore and relstore gateways.
// Each binary reads only the groups it needs.
type Config struct {
	// Application
	AppHost   string
	AppPort   string
	LogLevel  string
	LogFormat string

	// Relational store
	DBDriver       string
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Document store
	MongoURL     string
	MongoDB      string
	MongoTimeout time.Duration

	// History cache, disabled when RedisHost is empty
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	RedisExp      time.Duration

	// Analysis events, disabled when KafkaBrokers is empty
	KafkaBrokers []string
	KafkaTopic   string

	// Upload storage
	StorageBackend string
	UploadDir      string
	MaxUploadBytes int64
	MinioEndpoint  string
	MinioRegion    string
	MinioBucket    string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	// Tokens, signed with a random per-process key when JWTSecretKey is empty
	JWTSecretKey string
	JWTExp       time.Duration

	// Admin bootstrap, skipped when AdminEmail is empty
	AdminEmail    string
	AdminPassword string
}

// Load reads the env file at path (a missing file is not an error) and builds a Config
// from environment variables, falling back to defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var (
		cfg Config
		err error
	)

	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "5000")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("APP_LOG_FORMAT", "json")

	cfg.DBDriver = getEnv("DB_DRIVER", DriverMySQL)
	if cfg.DBDriver != DriverMySQL && cfg.DBDriver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	defaultDBPort := "3306"
	if cfg.DBDriver == DriverPostgres {
		defaultDBPort = "5432"
	}
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBUser = getEnv("DB_USER", "root")
	cfg.DBPassword = getEnv("DB_PASSWORD", "")
	cfg.DBName = getEnv("DB_NAME", "plant_ai")
	if cfg.DBPort, err = atoi("DB_PORT", getEnv("DB_PORT", defaultDBPort)); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = atoi("DB_MAX_OPEN_CONNS", getEnv("DB_MAX_OPEN_CONNS", "16")); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = atoi("DB_MAX_IDLE_CONNS", getEnv("DB_MAX_IDLE_CONNS", "8")); err != nil {
		return nil, err
	}

	cfg.MongoURL = getEnv("MONGO_URL", "mongodb://127.0.0.1:27017")
	cfg.MongoDB = getEnv("MONGO_DB", "plant_ai")
	mongoTimeout, err := atoi("MONGO_TIMEOUT_SECOND", getEnv("MONGO_TIMEOUT_SECOND", "10"))
	if err != nil {
		return nil, err
	}
	cfg.MongoTimeout = time.Duration(mongoTimeout) * time.Second

	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPort, err = atoi("REDIS_PORT", getEnv("REDIS_PORT", "6379")); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = atoi("REDIS_DB", getEnv("REDIS_DB", "0")); err != nil {
		return nil, err
	}
	redisExp, err := atoi("REDIS_EXP_SECOND", getEnv("REDIS_EXP_SECOND", "30"))
	if err != nil {
		return nil, err
	}
	cfg.RedisExp = time.Duration(redisExp) * time.Second

	cfg.KafkaBrokers = splitList(getEnv("KAFKA_BROKERS", ""))
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "plant-analyses")

	cfg.StorageBackend = getEnv("STORAGE_BACKEND", StorageLocal)
	if cfg.StorageBackend != StorageLocal && cfg.StorageBackend != StorageMinio {
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	cfg.UploadDir = getEnv("UPLOAD_DIR", "./uploads")
	maxUploadMB, err := atoi("MAX_UPLOAD_MB", getEnv("MAX_UPLOAD_MB", "10"))
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) << 20
	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	cfg.MinioRegion = getEnv("MINIO_REGION", "us-east-1")
	cfg.MinioBucket = getEnv("MINIO_BUCKET", "plant-uploads")
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	if cfg.MinioUseSSL, err = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false")); err != nil {
		return nil, fmt.Errorf("MINIO_USE_SSL: %w", err)
	}

	// Empty means a random per-process key; see jwt.New.
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "")
	jwtExp, err := atoi("JWT_EXP_SECOND", getEnv("JWT_EXP_SECOND", "3600"))
	if err != nil {
		return nil, err
	}
	cfg.JWTExp = time.Duration(jwtExp) * time.Second

	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "")
	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	return &cfg, nil
}

// SQLDSN returns the data source name for the configured SQL driver.
func (c *Config) SQLDSN() string {
	if c.DBDriver == DriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// RedisAddr returns host:port of the history cache.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func atoi(key, val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
