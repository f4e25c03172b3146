// Package database is the gorm-backed store: connection setup for postgres
// (on top of a pgx pool) and sqlite, migrations, and the repositories.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
)

const slowQueryThreshold = 200 * time.Millisecond

// DB owns the gorm handle and whatever it was built on.
type DB struct {
	Gorm  *gorm.DB
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

// Open connects using cfg.DBDriver. Postgres runs the SQL migrations first;
// sqlite is auto-migrated from the entities.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, logger)
	case "postgres", "":
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func gormConfig(logger *logrus.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(logger, slowQueryThreshold),
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	pool, err := NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(logger))
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, err
	}
	return &DB{Gorm: gdb, pool: pool, sqlDB: sqlDB}, nil
}

// OpenSQLite opens (or creates) a sqlite database and migrates the schema.
// ":memory:" is pinned to one connection so every query sees the same database.
func OpenSQLite(path string, logger *logrus.Logger) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), gormConfig(logger))
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := gdb.AutoMigrate(&entity.User{}, &entity.Bootcamp{}, &entity.Course{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &DB{Gorm: gdb, sqlDB: sqlDB}, nil
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	var err error
	if d.sqlDB != nil {
		err = d.sqlDB.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}
