// Package database owns the bounded connection pool every request runs through.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	apperrors "task-service.com/task-service/internal/errors"
	"task-service.com/task-service/internal/logging"
)

type PoolOptions struct {
	MaxConnections    int
	IdleTimeout       time.Duration
	ConnectionTimeout time.Duration
}

// PoolStats is a point-in-time view of pool utilization.
type PoolStats struct {
	Total   int   `json:"total"`
	Idle    int   `json:"idle"`
	Waiting int64 `json:"waiting"`
}

type Pool struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	opts    PoolOptions
	dialect string

	waiting   atomic.Int64
	probeOnce sync.Once
	closed    atomic.Bool
}

func NewPool(db *gorm.DB, opts PoolOptions) (*Pool, error) {
	if opts.MaxConnections <= 0 {
		return nil, fmt.Errorf("max connections must be greater than 0")
	}
	if opts.ConnectionTimeout <= 0 {
		return nil, fmt.Errorf("connection timeout must be greater than 0")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(opts.MaxConnections)
	sqlDB.SetMaxIdleConns(opts.MaxConnections)
	if opts.IdleTimeout > 0 {
		sqlDB.SetConnMaxIdleTime(opts.IdleTimeout)
	}

	return &Pool{
		db:      db,
		sqlDB:   sqlDB,
		opts:    opts,
		dialect: db.Dialector.Name(),
	}, nil
}

// Dialect is the gorm dialector name, "postgres" or "sqlite".
func (p *Pool) Dialect() string {
	return p.dialect
}

// Acquire takes a connection from the pool, waiting at most ConnectionTimeout.
// The caller must Release it.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	if p.closed.Load() {
		return nil, sql.ErrConnDone
	}
	p.probe(ctx)

	acquireCtx, cancel := context.WithTimeout(ctx, p.opts.ConnectionTimeout)
	defer cancel()

	p.waiting.Add(1)
	conn, err := p.sqlDB.Conn(acquireCtx)
	p.waiting.Add(-1)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			logging.Ctx(ctx).Warn().
				Dur("timeout", p.opts.ConnectionTimeout).
				Interface("pool", p.Stats()).
				Msg("timed out waiting for a database connection")
			return nil, apperrors.ErrPoolExhausted
		}
		return nil, err
	}
	return conn, nil
}

func (p *Pool) Release(conn *sql.Conn) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		logging.Warn().Err(err).Msg("failed to release database connection")
	}
}

// WithConn runs fn on a gorm session pinned to one pooled connection.
func (p *Pool) WithConn(ctx context.Context, fn func(tx *gorm.DB) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(conn)

	tx := p.db.WithContext(ctx)
	tx.Statement.ConnPool = conn
	return fn(tx)
}

// Ping round-trips to the database through the pool.
func (p *Pool) Ping(ctx context.Context) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(conn)
	return conn.PingContext(ctx)
}

func (p *Pool) Stats() PoolStats {
	s := p.sqlDB.Stats()
	return PoolStats{
		Total:   s.OpenConnections,
		Idle:    s.Idle,
		Waiting: p.waiting.Load(),
	}
}

func (p *Pool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.sqlDB.Close()
}

// probe checks connectivity once, on first use. A failure is only logged;
// the health check reports it.
func (p *Pool) probe(ctx context.Context) {
	p.probeOnce.Do(func() {
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.opts.ConnectionTimeout)
		defer cancel()

		if err := p.sqlDB.PingContext(probeCtx); err != nil {
			logging.Error().Err(err).Str("dialect", p.dialect).Msg("database liveness probe failed")
			return
		}
		logging.Info().Str("dialect", p.dialect).Msg("connected to database")
	})
}
