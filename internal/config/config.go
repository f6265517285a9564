package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type DB struct {
	DbHOST     string `env:"HOST" envDefault:"localhost"`
	DbPORT     string `env:"PORT" envDefault:"5432"`
	DbUSER     string `env:"USER" envDefault:"postgres"`
	DbPASSWORD string `env:"PASSWORD" envDefault:"password"`
	DbNAME     string `env:"NAME" envDefault:"engsite"`
	DbSSLMODE  string `env:"SSLMODE" envDefault:"disable"`
}

// DSN returns the lib/pq connection string.
func (d DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.DbHOST, d.DbPORT, d.DbUSER, d.DbPASSWORD, d.DbNAME, d.DbSSLMODE,
	)
}

type LocalStore struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/engsite.db"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"engsite:"`
}

type API struct {
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type MinIO struct {
	Endpoint   string `env:"ENDPOINT"`
	AccessKey  string `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey  string `env:"SECRET_KEY" envDefault:"minioadmin"`
	BucketName string `env:"BUCKET_NAME" envDefault:"images"`
	UseSSL     bool   `env:"USE_SSL" envDefault:"false"`
	Region     string `env:"REGION" envDefault:"us-east-1"`
	PublicURL  string `env:"PUBLIC_URL"`
}

// Enabled reports whether image uploads have somewhere to go.
func (m MinIO) Enabled() bool {
	return m.Endpoint != ""
}

type DemoUser struct {
	Email    string `env:"EMAIL" envDefault:"adm"`
	Password string `env:"PASSWORD" envDefault:"adm"`
	Name     string `env:"NAME" envDefault:"Test User"`
}

type RateLimit struct {
	RPS   float64 `env:"RPS" envDefault:"1"`
	Burst int     `env:"BURST" envDefault:"5"`
}

type PageLog struct {
	RetentionDays int    `env:"RETENTION_DAYS" envDefault:"90"`
	PruneSchedule string `env:"PRUNE_SCHEDULE" envDefault:"@daily"`
}

type Config struct {
	ServerPort        int    `env:"SERVER_PORT" envDefault:"8080"`
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string `env:"LOG_FORMAT" envDefault:"text"`

	// UseMock selects the local store for every repository. Read once at startup.
	UseMock bool `env:"USE_MOCK" envDefault:"true"`

	API        API        `envPrefix:"API_"`
	LocalStore LocalStore `envPrefix:"LOCAL_STORE_"`
	DB         DB         `envPrefix:"DB_"`
	MinIO      MinIO      `envPrefix:"MINIO_"`
	DemoUser   DemoUser   `envPrefix:"DEMO_USER_"`
	RateLimit  RateLimit  `envPrefix:"RATE_LIMIT_"`
	PageLog    PageLog    `envPrefix:"PAGELOG_"`

	JWTSecretKey    string        `env:"JWT_SECRET_KEY"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"12h"`
	MaxUploadSize   int64         `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return Parse()
}

// Parse reads the process environment without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	cfg.LocalStore.Driver = strings.ToLower(strings.TrimSpace(cfg.LocalStore.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LocalStore.Driver {
	case DriverSQLite, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown LOCAL_STORE_DRIVER %q", c.LocalStore.Driver)
	}

	if !c.UseMock {
		if c.API.BaseURL == "" {
			return errors.New("API_BASE_URL is required when USE_MOCK=false")
		}
		if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
			return fmt.Errorf("invalid API_BASE_URL: %w", err)
		}
	}

	if c.UseMock && c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is required when USE_MOCK=true")
	}

	if c.SessionDuration <= 0 {
		return errors.New("SESSION_DURATION must be positive")
	}

	return nil
}

// Mode names the data source for logs and the health endpoint.
func (c *Config) Mode() string {
	if c.UseMock {
		return "mock"
	}
	return "live"
}
