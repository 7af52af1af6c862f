// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	app "github.com/alchemorsel/recipebook/internal/application/recipe"
	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	"github.com/alchemorsel/recipebook/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/recipebook/internal/infrastructure/monitoring"
	gormRepo "github.com/alchemorsel/recipebook/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/postgres"
	redisCache "github.com/alchemorsel/recipebook/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"github.com/alchemorsel/recipebook/pkg/healthcheck"
	"github.com/alchemorsel/recipebook/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigPath names the configuration file handed to config.Load. The zero
// value searches the default locations.
type ConfigPath string

// Module provides all dependency injection modules. Callers supply a
// ConfigPath with fx.Supply.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	MonitoringModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(NewLogger)

// DatabaseModule provides the migrated, optionally seeded database
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := NewDatabase(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}

		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return CloseDatabase(db)
			},
		})

		return db, nil
	},
)

// CacheModule provides the recipe cache. The redis client is nil unless
// redis is enabled; the cache is nil when caching is disabled.
var CacheModule = fx.Provide(NewCache)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewRecipeRepository,
	gormRepo.NewIngredientRepository,
)

// MonitoringModule provides metrics, tracing and health checks
var MonitoringModule = fx.Provide(
	func(cfg *config.Config) *monitoring.MetricsCollector {
		if !cfg.Monitoring.EnableMetrics {
			return nil
		}
		return monitoring.NewMetricsCollector()
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), cfg.App, cfg.Monitoring, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
	NewHealthCheck,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		cfg *config.Config,
		recipes outbound.RecipeRepository,
		ingredients outbound.IngredientRepository,
		cache outbound.CacheRepository,
		metrics *monitoring.MetricsCollector,
		tracing *monitoring.TracingProvider,
		log *zap.Logger,
	) inbound.RecipeService {
		opts := app.Options{
			Cache:    cache,
			CacheTTL: cfg.Cache.TTL,
			Tracer:   tracing.Tracer(),
		}
		// a typed nil collector must not end up inside the interface
		if metrics != nil {
			opts.Metrics = metrics
		}
		return app.NewRecipeService(recipes, ingredients, opts, log)
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(apiserver.NewServer)

// LifecycleModule registers lifecycle hooks
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// NewLogger builds the application logger from configuration
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
}

// NewDatabase opens the configured database, brings its schema up to date
// and loads the demo recipes when seeding is enabled.
func NewDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if cfg.Database.AutoMigrate {
			if err := MigrateUp(cfg.Database, log); err != nil {
				return nil, err
			}
		}
		db, err = postgres.Connect(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info("Connected to PostgreSQL database",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database),
			zap.Int("read_replicas", len(cfg.Database.ReadReplicas)),
		)
	default:
		db, err = sqlite.SetupDatabase(cfg.Database.Path, gormRepo.LogLevel(cfg.Database.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == "" || cfg.Database.Path == ":memory:"),
		)
	}

	if cfg.Database.Seed {
		created, err := gormRepo.Seed(ctx, db)
		if err != nil {
			_ = CloseDatabase(db)
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
		log.Info("Seeded database", zap.Int("recipes", created))
	}

	return db, nil
}

// NewMigrator opens a dedicated postgres handle for schema migrations.
// Closing the migrator closes the handle.
func NewMigrator(cfg config.DatabaseConfig, log *zap.Logger) (*migrations.Migrator, error) {
	if cfg.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("migrations require the %q driver, got %q", config.DriverPostgres, cfg.Driver)
	}

	sqlDB, err := postgres.OpenSQL(cfg.DSN(), cfg)
	if err != nil {
		return nil, err
	}

	m, err := migrations.New(sqlDB, cfg.Database, log)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return m, nil
}

// MigrateUp applies every pending postgres migration
func MigrateUp(cfg config.DatabaseConfig, log *zap.Logger) error {
	m, err := NewMigrator(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return m.Up()
}

// CloseDatabase closes the connection pool behind db
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewCache selects the recipe cache: redis when enabled, otherwise the
// in-process cache, or none when caching is switched off.
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, redis.UniversalClient, error) {
	if !cfg.Cache.Enabled {
		log.Info("Recipe cache disabled")
		return nil, nil, nil
	}

	if cfg.Redis.Enabled {
		client, err := redisCache.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		log.Info("Using redis recipe cache", zap.String("address", cfg.Redis.Address()))
		return redisCache.NewCacheRepository(client, cfg.Cache.KeyPrefix, log), client, nil
	}

	cache := memory.NewCacheRepository(cfg.Cache.CleanupInterval)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return cache.Close()
		},
	})
	log.Info("Using in-memory recipe cache", zap.Duration("ttl", cfg.Cache.TTL))
	return cache, nil, nil
}

// NewHealthCheck registers a checker for every backing service
func NewHealthCheck(cfg *config.Config, db *gorm.DB, client redis.UniversalClient, log *zap.Logger) (*healthcheck.HealthCheck, error) {
	health := healthcheck.New(cfg.App.Version, log)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))

	if client != nil {
		health.Register("redis", healthcheck.NewRedisChecker(client))
	}

	return health, nil
}

// RegisterLifecycleHooks starts the HTTP server with the application and
// drains it on shutdown
func RegisterLifecycleHooks(lc fx.Lifecycle, cfg *config.Config, server *apiserver.Server, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting recipebook",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("address", cfg.Server.Address()),
				zap.String("database", cfg.Database.Driver),
			)

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped unexpectedly", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down recipebook")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
