package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/rueidis"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"task-service.com/task-service/internal/admission"
	config "task-service.com/task-service/internal/configs"
	"task-service.com/task-service/internal/database"
	"task-service.com/task-service/internal/logging"
	"task-service.com/task-service/internal/metrics"
	"task-service.com/task-service/internal/querybuilder"
	repository "task-service.com/task-service/internal/repositories"
	"task-service.com/task-service/internal/services"
)

// app is the dependency graph shared by the commands.
type app struct {
	cfg   config.Config
	pool  *database.Pool
	repo  *repository.TaskRepository
	redis rueidis.Client
}

// loadConfig reads .env (if present) and the environment, applying the
// --profile flag when it was given.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envErr := godotenv.Load()

	if profile, _ := cmd.Flags().GetString("profile"); profile != "" {
		if err := os.Setenv("SERVICE_PROFILE", profile); err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Debug().Msg(".env file not found, using environment variables")
	}
	return cfg, nil
}

// openDatabase is swapped in tests.
var openDatabase = config.NewDatabaseClient

func newApp(cfg config.Config) (*app, error) {
	db, err := openDatabase(cfg.DB)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err := config.Migrate(db, cfg.Profile); err != nil {
			closeDB(db)
			return nil, err
		}
	}

	pool, err := database.NewPool(db, database.PoolOptions{
		MaxConnections:    cfg.DB.MaxConnections,
		IdleTimeout:       cfg.DB.IdleTimeout,
		ConnectionTimeout: cfg.DB.ConnectionTimeout,
	})
	if err != nil {
		closeDB(db)
		return nil, err
	}

	dialect, err := querybuilder.DialectFor(pool.Dialect())
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	qb := querybuilder.New(cfg.Profile, dialect, querybuilder.WithFallbackHook(func(param, value string) {
		metrics.SortFallbacks.WithLabelValues(param).Inc()
		logging.Debug().Str("param", param).Str("value", value).Msg("unsupported sort parameter, using default")
	}))

	return &app{
		cfg:  cfg,
		pool: pool,
		repo: repository.NewTaskRepository(pool, qb),
	}, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// tokenManager picks redis-backed admission tokens when REDIS_ADDR is set.
func (a *app) tokenManager(ctx context.Context) (admission.TokenManager, error) {
	if a.cfg.RedisAddr == "" {
		return admission.NewLocalTokenManager(a.cfg.RawQueryConcurrency), nil
	}

	client, err := config.NewRedisClient(a.cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	a.redis = client

	tm := admission.NewRedisTokenManager(client, a.cfg.RedisTokenKey)
	if err := tm.InitializeTokens(ctx, a.cfg.RawQueryConcurrency); err != nil {
		return nil, fmt.Errorf("failed to initialize redis admission tokens: %w", err)
	}
	return tm, nil
}

func (a *app) diagnostics(tokens admission.TokenManager) *services.DiagnosticsService {
	return services.NewDiagnosticsService(a.repo, a.pool, tokens, services.ServiceInfo{
		Name:        a.cfg.ServiceName,
		Profile:     a.cfg.Profile.Name,
		Version:     a.cfg.Version,
		Environment: a.cfg.Environment,
	}, a.cfg.RawQueryAllowed())
}

func (a *app) close() {
	if err := a.pool.Close(); err != nil {
		logging.Error().Err(err).Msg("failed to close database pool")
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
