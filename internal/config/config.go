package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/prepdeck/qbank-admin/internal/pkg/retry"
)

// StorageKind selects where wizard sessions are kept between requests.
type StorageKind string

const (
	StorageMemory   StorageKind = "memory"
	StoragePostgres StorageKind = "postgres"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Wizard session storage
	SessionStorage StorageKind   `env:"SESSION_STORAGE" envDefault:"memory"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// Database configuration (required only for postgres session storage)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Question-bank backend connector
	BackendCfg BackendConnectorConfig `envPrefix:"QBANK_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// BackendConnectorConfig describes the opaque REST backend that owns topics,
// tags, templates and questions. Endpoint paths are configurable because the
// template and import routes differ between backend deployments.
type BackendConnectorConfig struct {
	HTTPClientConfig
	TopicEndpoint     string               `env:"TOPIC_ENDPOINT" envDefault:"/topic"`
	TagEndpoint       string               `env:"TAG_ENDPOINT" envDefault:"/tag"`
	TemplateEndpoint  string               `env:"TEMPLATE_ENDPOINT" envDefault:"/admin/interviews"`
	QuestionEndpoint  string               `env:"QUESTION_ENDPOINT" envDefault:"/question"`
	CSVImportEndpoint string               `env:"CSV_IMPORT_ENDPOINT" envDefault:"/question/import"`
	Retry             pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// FileUploadConfig holds upload limits for CSV import batches.
type FileUploadConfig struct {
	MaxCSVFileSize int64 `env:"MAX_CSV_FILE_SIZE" envDefault:"5242880"` // 5 MiB
	MaxUploadSize  int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`  // 32 MiB multipart memory
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	switch cfg.SessionStorage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when SESSION_STORAGE=postgres")
		}
	default:
		return fmt.Errorf("SESSION_STORAGE must be 'memory' or 'postgres', got %q", cfg.SessionStorage)
	}

	if cfg.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m, got %s", cfg.SessionTTL)
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	if cfg.FileUploadCfg.MaxCSVFileSize < 1 {
		return fmt.Errorf("FILE_UPLOAD_MAX_CSV_FILE_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxCSVFileSize)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
