package db

import (
	"context"
	"fmt"
	"time"

	"cafebackend/config"
	"cafebackend/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB bundles the pgx pool with the gorm handle built on top of it. The pool
// bounds concurrent connections; callers beyond MaxConns wait for one.
type DB struct {
	Gorm *gorm.DB
	Pool *pgxpool.Pool
	log  *logger.Logger
}

func Connect(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*DB, error) {
	return ConnectDSN(ctx, cfg.DSN(), cfg.MaxConns, log)
}

func ConnectDSN(ctx context.Context, dsn string, maxConns int32, log *logger.Logger) (*DB, error) {
	log = log.WithComponent("db")

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	log.Info("database connected",
		"host", poolCfg.ConnConfig.Host,
		"database", poolCfg.ConnConfig.Database,
		"max_conns", poolCfg.MaxConns)
	return &DB{Gorm: gdb, Pool: pool, log: log}, nil
}

func (d *DB) Close() {
	d.log.Info("closing database pool")
	if sqlDB, err := d.Gorm.DB(); err == nil {
		sqlDB.Close()
	}
	d.Pool.Close()
}

func (d *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.Pool.Ping(ctx); err != nil {
		return Wrap(err)
	}
	return nil
}

// WithContext returns the gorm handle bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.Gorm.WithContext(ctx)
}

// Query runs a raw parameterized SELECT and scans all rows into dest.
func (d *DB) Query(ctx context.Context, dest any, sql string, args ...any) error {
	return Wrap(d.Gorm.WithContext(ctx).Raw(sql, args...).Scan(dest).Error)
}

// FindOne is Query for a single row; no row yields apperr.ErrNotFound.
func (d *DB) FindOne(ctx context.Context, dest any, sql string, args ...any) error {
	res := d.Gorm.WithContext(ctx).Raw(sql, args...).Scan(dest)
	if res.Error != nil {
		return Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return Wrap(gorm.ErrRecordNotFound)
	}
	return nil
}

// Exec runs a statement and returns the affected row count. Callers that
// care whether a row matched must check the count themselves.
func (d *DB) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	res := d.Gorm.WithContext(ctx).Exec(sql, args...)
	return res.RowsAffected, Wrap(res.Error)
}

// Transaction runs fn in a database transaction, committing when fn
// returns nil.
func (d *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := d.Gorm.WithContext(ctx).Transaction(fn)
	if err != nil {
		d.log.Debug("transaction rolled back", "error", err)
	}
	return Wrap(err)
}

// AutoMigrate creates or updates the given tables.
func (d *DB) AutoMigrate(ctx context.Context, tables ...any) error {
	return Wrap(d.Gorm.WithContext(ctx).AutoMigrate(tables...))
}
