// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	gormModels "github.com/alchemorsel/recipebook/internal/infrastructure/persistence/gorm"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// OpenSQL opens a pooled database/sql handle backed by the pgx driver
func OpenSQL(dsn string, cfg config.DatabaseConfig) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return sqlDB, nil
}

// Connect opens the primary database, verifies it answers and registers
// read replicas when configured. Searches and listings are routed to the
// replicas; writes and transactions stay on the primary.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	sqlDB, err := OpenSQL(cfg.DSN(), cfg)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(gormModels.LogLevel(cfg.LogLevel)),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := gormModels.RegisterJoinTable(db); err != nil {
		return nil, err
	}

	if len(cfg.ReadReplicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReadReplicas))
		for _, dsn := range cfg.ReplicaDSNs() {
			replicaDB, err := OpenSQL(dsn, cfg)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, postgres.New(postgres.Config{Conn: replicaDB}))
		}

		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("failed to register read replicas: %w", err)
		}
	}

	log.Info("Connected to postgres",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("read_replicas", len(cfg.ReadReplicas)),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return db, nil
}
