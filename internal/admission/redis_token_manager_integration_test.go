//go:build integration

package admission

import (
	"context"
	"errors"
	"testing"

	config "task-service.com/task-service/internal/configs"
	"task-service.com/task-service/internal/testutil"
)

func TestRedisTokenManager(t *testing.T) {
	addr := testutil.StartRedis(t)
	client, err := config.NewRedisClient(addr)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(client.Close)

	ctx := context.Background()
	tm := NewRedisTokenManager(client, "test:raw_query_tokens")
	if err := tm.InitializeTokens(ctx, 2); err != nil {
		t.Fatalf("InitializeTokens: %v", err)
	}

	if err := tm.AcquireToken(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tm.AcquireToken(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tm.AcquireToken(ctx); !errors.Is(err, ErrNoTokenAvailable) {
		t.Fatalf("expected ErrNoTokenAvailable, got %v", err)
	}

	if err := tm.ReleaseToken(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tm.AcquireToken(ctx); err != nil {
		t.Errorf("released token should be reusable: %v", err)
	}

	// a second replica sharing the key sees the same budget
	other := NewRedisTokenManager(client, "test:raw_query_tokens")
	if err := other.AcquireToken(ctx); !errors.Is(err, ErrNoTokenAvailable) {
		t.Errorf("expected shared exhaustion, got %v", err)
	}
}
