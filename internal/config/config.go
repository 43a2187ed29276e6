package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	FilterModeOverride  = "override"
	FilterModeIntersect = "intersect"
)

type Config struct {
	App        AppConfig
	Log        LogConfig
	Store      StoreConfig
	Mongo      MongoConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Ban        BanConfig
	Pagination PaginationConfig
	Storage    StorageConfig
	Dashboard  DashboardConfig
	Swagger    SwaggerConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	MaxSizeMB  int
	MaxBackups int
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI        string
	DBName     string
	User       string
	Password   string
	AuthSource string
	Timeout    time.Duration
}

// PostgresConfig holds the DSN and the database/sql pool limits. Zero limits keep the
// database/sql defaults.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig configures the ban store. An empty Addr keeps strikes and bans in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type BanConfig struct {
	Strikes  int
	Window   time.Duration
	Duration time.Duration
}

type PaginationConfig struct {
	DefaultPage  int
	DefaultLimit int
}

// StorageConfig configures product image uploads. An empty Bucket selects the stub uploader.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	PublicURL       string
	MaxUploadBytes  int64
}

type DashboardConfig struct {
	Timezone   string
	FilterMode string
	Location   *time.Location
}

type SwaggerConfig struct {
	Enabled bool
}

var defaults = map[string]any{
	"APP_PORT":                 "8080",
	"APP_ENV":                  "development",
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "console",
	"LOG_OUTPUT":               "stdout",
	"LOG_MAX_SIZE_MB":          100,
	"LOG_MAX_BACKUPS":          3,
	"STORE_DRIVER":             DriverMongo,
	"MONGO_URI":                "mongodb://localhost:27017",
	"MONGO_DB_NAME":            "catalog",
	"MONGO_AUTH_SOURCE":        "admin",
	"MONGO_TIMEOUT":            "10s",
	"POSTGRES_MAX_OPEN_CONNS":  25,
	"POSTGRES_MAX_IDLE_CONNS":  25,
	"POSTGRES_CONN_LIFETIME":   "30m",
	"POSTGRES_CONN_IDLE_TIME":  "5m",
	"REDIS_DB":                 0,
	"RATE_LIMIT_RPS":           5,
	"RATE_LIMIT_BURST":         10,
	"BAN_STRIKES":              5,
	"BAN_WINDOW":               "1m",
	"BAN_DURATION":             "15m",
	"PAGINATION_DEFAULT_PAGE":  1,
	"PAGINATION_DEFAULT_LIMIT": 10,
	"AWS_DEFAULT_REGION":       "us-east-1",
	"UPLOAD_MAX_BYTES":         10 << 20,
	"DASHBOARD_TIMEZONE":       "UTC",
	"DASHBOARD_FILTER_MODE":    FilterModeOverride,
	"SWAGGER_ENABLED":          true,
}

// Load reads configuration from .env, an optional config.yaml and the environment.
//
// Priority (highest to lowest):
// 1. Environment variables
// 2. .env file (never overrides variables already set)
// 3. config.yaml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		App: AppConfig{
			Port: v.GetString("APP_PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			Output:     v.GetString("LOG_OUTPUT"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("MONGO_URI"),
			DBName:     v.GetString("MONGO_DB_NAME"),
			User:       v.GetString("MONGO_USER"),
			Password:   v.GetString("MONGO_PASSWORD"),
			AuthSource: v.GetString("MONGO_AUTH_SOURCE"),
			Timeout:    v.GetDuration("MONGO_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("POSTGRES_CONN_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("POSTGRES_CONN_IDLE_TIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Ban: BanConfig{
			Strikes:  v.GetInt("BAN_STRIKES"),
			Window:   v.GetDuration("BAN_WINDOW"),
			Duration: v.GetDuration("BAN_DURATION"),
		},
		Pagination: PaginationConfig{
			DefaultPage:  v.GetInt("PAGINATION_DEFAULT_PAGE"),
			DefaultLimit: v.GetInt("PAGINATION_DEFAULT_LIMIT"),
		},
		Storage: StorageConfig{
			Endpoint:        v.GetString("AWS_S3_ENDPOINT"),
			AccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			Region:          v.GetString("AWS_DEFAULT_REGION"),
			Bucket:          v.GetString("AWS_S3_BUCKET_NAME"),
			PublicURL:       v.GetString("AWS_S3_PUBLIC_URL"),
			MaxUploadBytes:  v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Dashboard: DashboardConfig{
			Timezone:   v.GetString("DASHBOARD_TIMEZONE"),
			FilterMode: strings.ToLower(v.GetString("DASHBOARD_FILTER_MODE")),
		},
		Swagger: SwaggerConfig{
			Enabled: v.GetBool("SWAGGER_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and resolves the dashboard location.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.DBName == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DB_NAME are required for the mongo driver"))
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
		if c.Postgres.MaxOpenConns < 0 || c.Postgres.MaxIdleConns < 0 {
			errs = append(errs, errors.New("POSTGRES_MAX_OPEN_CONNS and POSTGRES_MAX_IDLE_CONNS must not be negative"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.Pagination.DefaultPage < 1 {
		errs = append(errs, errors.New("PAGINATION_DEFAULT_PAGE must be at least 1"))
	}
	if c.Pagination.DefaultLimit < 1 {
		errs = append(errs, errors.New("PAGINATION_DEFAULT_LIMIT must be at least 1"))
	}

	switch c.Dashboard.FilterMode {
	case FilterModeOverride, FilterModeIntersect:
	default:
		errs = append(errs, fmt.Errorf("unknown DASHBOARD_FILTER_MODE %q", c.Dashboard.FilterMode))
	}

	// The stores group days by zone name, and "Local" means nothing to a database server.
	if c.Dashboard.Timezone == "Local" {
		errs = append(errs, errors.New("invalid DASHBOARD_TIMEZONE: use an IANA zone name instead of Local"))
	} else {
		loc, err := time.LoadLocation(c.Dashboard.Timezone)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid DASHBOARD_TIMEZONE: %w", err))
		}
		c.Dashboard.Location = loc
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
