package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	model "task-service.com/task-service/internal/models"
)

const EnvProduction = "production"

type Config struct {
	Profile     model.Profile
	ServiceName string
	Version     string
	Environment string
	AppURL      string

	DB DatabaseConfig

	EnableRawQuery      bool
	ExposeErrorDetails  bool
	RawQueryConcurrency int
	RedisAddr           string
	RedisTokenKey       string

	RateLimit              int
	ShutdownTimeoutSeconds int

	LogLevel  string
	LogFormat string
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool

	MaxConnections    int
	IdleTimeout       time.Duration
	ConnectionTimeout time.Duration
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// RawQueryAllowed reports whether the diagnostic query route may execute at all.
func (c Config) RawQueryAllowed() bool {
	return c.EnableRawQuery && !c.IsProduction()
}

// ShowErrorDetails reports whether driver error text may be returned to clients.
func (c Config) ShowErrorDetails() bool {
	return c.ExposeErrorDetails && !c.IsProduction()
}

func (d DatabaseConfig) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	case "sqlite":
		return d.SQLitePath
	default:
		return ""
	}
}

func Load() (Config, error) {
	profile, err := model.LookupProfile(getEnv("SERVICE_PROFILE", model.ProfileAPIService))
	if err != nil {
		return Config{}, err
	}
	if prefix, ok := os.LookupEnv("ROUTE_PREFIX"); ok {
		profile.RoutePrefix = strings.TrimRight(prefix, "/")
	}

	appHost := getEnv("APP_HOST", "0.0.0.0")
	appPort := getEnv("PORT", "3000")

	cfg := Config{
		Profile:     profile,
		ServiceName: getEnv("SERVICE_NAME", profile.Name),
		Version:     getEnv("SERVICE_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		AppURL:      fmt.Sprintf("%s:%s", appHost, appPort),
		DB: DatabaseConfig{
			Driver:            getEnv("DB_DRIVER", "postgres"),
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnv("DB_PORT", "5432"),
			Name:              getEnv("DB_NAME", "tasks"),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			SQLitePath:        getEnv("SQLITE_PATH", "tasks.db"),
			MaxConnections:    10,
			IdleTimeout:       30 * time.Second,
			ConnectionTimeout: 2 * time.Second,
		},
		RawQueryConcurrency:    2,
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisTokenKey:          getEnv("REDIS_TOKEN_KEY", profile.Name+":raw_query_tokens"),
		RateLimit:              600,
		ShutdownTimeoutSeconds: 20,
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", "json"),
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DB_MAX_CONNECTIONS", &cfg.DB.MaxConnections},
		{"RAW_QUERY_CONCURRENCY", &cfg.RawQueryConcurrency},
		{"RATE_LIMIT_PER_MINUTE", &cfg.RateLimit},
		{"SHUTDOWN_TIMEOUT_SECONDS", &cfg.ShutdownTimeoutSeconds},
	}
	for _, v := range ints {
		if *v.dst, err = getEnvAsInt(v.key, *v.dst); err != nil {
			return Config{}, err
		}
	}

	if cfg.DB.IdleTimeout, err = getEnvAsMillis("DB_IDLE_TIMEOUT_MS", cfg.DB.IdleTimeout); err != nil {
		return Config{}, err
	}
	if cfg.DB.ConnectionTimeout, err = getEnvAsMillis("DB_CONNECTION_TIMEOUT_MS", cfg.DB.ConnectionTimeout); err != nil {
		return Config{}, err
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"ENABLE_RAW_QUERY", &cfg.EnableRawQuery},
		{"EXPOSE_ERROR_DETAILS", &cfg.ExposeErrorDetails},
		{"DB_AUTO_MIGRATE", &cfg.DB.AutoMigrate},
	}
	for _, v := range bools {
		if *v.dst, err = getEnvAsBool(v.key, *v.dst); err != nil {
			return Config{}, err
		}
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.AppURL == "" {
		return fmt.Errorf("APP_HOST/PORT must not be empty (e.g. 0.0.0.0:3000)")
	}
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN() == "" {
		return fmt.Errorf("database connection settings must not be empty")
	}
	if cfg.DB.MaxConnections <= 0 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be greater than 0")
	}
	if cfg.DB.IdleTimeout <= 0 {
		return fmt.Errorf("DB_IDLE_TIMEOUT_MS must be greater than 0")
	}
	if cfg.DB.ConnectionTimeout <= 0 {
		return fmt.Errorf("DB_CONNECTION_TIMEOUT_MS must be greater than 0")
	}
	if cfg.RawQueryConcurrency <= 0 {
		return fmt.Errorf("RAW_QUERY_CONCURRENCY must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid boolean value for %s", key)
		}
		return b, nil
	}
	return defaultVal, nil
}

func getEnvAsMillis(key string, defaultVal time.Duration) (time.Duration, error) {
	ms, err := getEnvAsInt(key, int(defaultVal/time.Millisecond))
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}
