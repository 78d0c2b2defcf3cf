package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"task-service.com/task-service/internal/database"
	apperrors "task-service.com/task-service/internal/errors"
	model "task-service.com/task-service/internal/models"
	"task-service.com/task-service/internal/testutil"
)

func newPool(t *testing.T, opts database.PoolOptions) *database.Pool {
	t.Helper()
	db := testutil.NewDB(t, testutil.MustProfile(t, model.ProfileAPIService))
	pool, err := database.NewPool(db, opts)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	return pool
}

func TestNewPool_RejectsInvalidOptions(t *testing.T) {
	db := testutil.NewDB(t, testutil.MustProfile(t, model.ProfileAPIService))

	if _, err := database.NewPool(db, database.PoolOptions{MaxConnections: 0, ConnectionTimeout: time.Second}); err == nil {
		t.Error("expected error for zero max connections")
	}
	if _, err := database.NewPool(db, database.PoolOptions{MaxConnections: 1}); err == nil {
		t.Error("expected error for zero connection timeout")
	}
}

func TestPool_AcquireRelease(t *testing.T) {
	pool := newPool(t, database.PoolOptions{MaxConnections: 2, IdleTimeout: time.Minute, ConnectionTimeout: time.Second})
	ctx := context.Background()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	stats := pool.Stats()
	if stats.Total < 1 || stats.Waiting != 0 {
		t.Errorf("unexpected stats while holding a connection: %+v", stats)
	}
	if stats.Total-stats.Idle < 1 {
		t.Errorf("held connection must not be idle: %+v", stats)
	}

	pool.Release(conn)

	stats = pool.Stats()
	if stats.Idle < 1 {
		t.Errorf("released connection should be idle: %+v", stats)
	}
	if stats.Total > 2 {
		t.Errorf("pool exceeded max connections: %+v", stats)
	}
}

func TestPool_ExhaustedAfterTimeout(t *testing.T) {
	pool := newPool(t, database.PoolOptions{MaxConnections: 1, IdleTimeout: time.Minute, ConnectionTimeout: 50 * time.Millisecond})
	ctx := context.Background()

	held, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer pool.Release(held)

	start := time.Now()
	_, err = pool.Acquire(ctx)
	if !errors.Is(err, apperrors.ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("acquire gave up after %v, before the timeout", elapsed)
	}
	if apperrors.StatusCode(err) != 503 {
		t.Errorf("expected 503 status, got %d", apperrors.StatusCode(err))
	}
	if w := pool.Stats().Waiting; w != 0 {
		t.Errorf("waiting counter must drop back to 0, got %d", w)
	}
}

func TestPool_WaitingIsReported(t *testing.T) {
	pool := newPool(t, database.PoolOptions{MaxConnections: 1, IdleTimeout: time.Minute, ConnectionTimeout: 5 * time.Second})
	ctx := context.Background()

	held, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		conn, err := pool.Acquire(ctx)
		if err == nil {
			pool.Release(conn)
		}
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for pool.Stats().Waiting != 1 {
		if time.Now().After(deadline) {
			t.Fatal("waiting caller never showed up in stats")
		}
		time.Sleep(5 * time.Millisecond)
	}

	pool.Release(held)

	if err := <-done; err != nil {
		t.Fatalf("waiting caller failed: %v", err)
	}
	if w := pool.Stats().Waiting; w != 0 {
		t.Errorf("expected no waiters, got %d", w)
	}
}

func TestPool_CancelledContext(t *testing.T) {
	pool := newPool(t, database.PoolOptions{MaxConnections: 1, IdleTimeout: time.Minute, ConnectionTimeout: time.Second})

	held, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer pool.Release(held)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pool.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPool_WithConnAndClose(t *testing.T) {
	pool := newPool(t, database.PoolOptions{MaxConnections: 2, IdleTimeout: time.Minute, ConnectionTimeout: time.Second})
	ctx := context.Background()

	if pool.Dialect() != "sqlite" {
		t.Errorf("expected sqlite dialect, got %q", pool.Dialect())
	}

	var one int
	err := pool.WithConn(ctx, func(tx *gorm.DB) error {
		return tx.Raw("SELECT 1").Row().Scan(&one)
	})
	if err != nil || one != 1 {
		t.Fatalf("WithConn: got %d, %v", one, err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	if err := pool.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if err := pool.Ping(ctx); err == nil {
		t.Error("expected Ping to fail on a closed pool")
	}
}

func TestPool_EvictsIdleConnections(t *testing.T) {
	pool := newPool(t, database.PoolOptions{MaxConnections: 2, IdleTimeout: 50 * time.Millisecond, ConnectionTimeout: time.Second})
	ctx := context.Background()

	first, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	pool.Release(first)
	pool.Release(second)

	if idle := pool.Stats().Idle; idle == 0 {
		t.Fatal("released connections should be idle before the timeout")
	}

	// database/sql sweeps idle connections at most once per second.
	deadline := time.Now().Add(5 * time.Second)
	for pool.Stats().Idle > 0 && time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
	}

	if stats := pool.Stats(); stats.Idle != 0 || stats.Total != 0 {
		t.Errorf("idle connections not evicted: %+v", stats)
	}
}
