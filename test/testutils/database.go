// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	gormrepo "github.com/alchemorsel/recipebook/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a fresh in-memory database with the full schema.
// The connection is closed when the test ends.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := sqlite.SetupDatabase("", logger.Silent)
	require.NoError(t, err, "Failed to open sqlite database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// Repositories bundles the gorm-backed repositories over one database
type Repositories struct {
	DB          *gorm.DB
	Recipes     outbound.RecipeRepository
	Ingredients outbound.IngredientRepository
}

// NewRepositories wires recipe and ingredient repositories over db
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		DB:          db,
		Recipes:     gormrepo.NewRecipeRepository(db),
		Ingredients: gormrepo.NewIngredientRepository(db),
	}
}

// Store persists a recipe the way the service does: ingredients are
// resolved by name first, then the recipe is created
func (r Repositories) Store(t testing.TB, d recipe.Details) *recipe.Recipe {
	t.Helper()
	ctx := context.Background()

	rec, err := recipe.NewRecipe(d)
	require.NoError(t, err)

	ingredients := rec.Ingredients()
	for i := range ingredients {
		require.NoError(t, r.Ingredients.Create(ctx, &ingredients[i]))
	}
	require.NoError(t, rec.ResolveIngredients(ingredients))
	require.NoError(t, r.Recipes.Create(ctx, rec))

	return rec
}

// TestDatabase provides a postgres test database running in a container
type TestDatabase struct {
	Container testcontainers.Container
	DB        *sql.DB
	GormDB    *gorm.DB
	Config    config.DatabaseConfig
	t         *testing.T
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "recipebook_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432",
	}
}

// SetupTestDatabase starts postgres, applies migrations and connects gorm
func SetupTestDatabase(t *testing.T) *TestDatabase {
	return SetupTestDatabaseWithConfig(t, DefaultDatabaseConfig())
}

// SetupTestDatabaseWithConfig creates a test database with custom configuration
func SetupTestDatabaseWithConfig(t *testing.T, cfg DatabaseConfig) *TestDatabase {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{cfg.Port + "/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForSQL(nat.Port(cfg.Port+"/tcp"), "pgx", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
				}),
			),
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,noexec,nosuid,size=512m",
			},
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")

	td := &TestDatabase{Container: container, t: t}
	t.Cleanup(td.Cleanup)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, nat.Port(cfg.Port+"/tcp"))
	require.NoError(t, err)

	td.Config = config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		Database:        cfg.Database,
		Username:        cfg.Username,
		Password:        cfg.Password,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		LogLevel:        "silent",
	}

	require.NoError(t, td.RunMigrations(), "Failed to run migrations")

	td.GormDB, err = postgres.Connect(ctx, td.Config, zap.NewNop())
	require.NoError(t, err, "Failed to connect gorm")

	td.DB, err = td.GormDB.DB()
	require.NoError(t, err)

	return td
}

// RunMigrations applies every migration over a dedicated connection
func (td *TestDatabase) RunMigrations() error {
	sqlDB, err := postgres.OpenSQL(td.Config.DSN(), td.Config)
	if err != nil {
		return err
	}

	m, err := migrations.New(sqlDB, td.Config.Database, zap.NewNop())
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer m.Close()

	return m.Up()
}

// TruncateAllTables removes all rows while preserving structure
func (td *TestDatabase) TruncateAllTables() error {
	_, err := td.DB.Exec("TRUNCATE TABLE recipe_ingredient, recipes, ingredients RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// Cleanup closes all connections and stops the container
func (td *TestDatabase) Cleanup() {
	if td.DB != nil {
		_ = td.DB.Close()
		td.DB = nil
	}

	if td.Container != nil {
		if err := td.Container.Terminate(context.Background()); err != nil {
			td.t.Logf("Failed to terminate postgres container: %v", err)
		}
		td.Container = nil
	}
}
