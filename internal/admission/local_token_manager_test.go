package admission

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLocalTokenManager_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	tm := NewLocalTokenManager(2)

	if err := tm.AcquireToken(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tm.AcquireToken(ctx); err != nil {
		t.Fatal(err)
	}
	if err := tm.AcquireToken(ctx); !errors.Is(err, ErrNoTokenAvailable) {
		t.Fatalf("expected ErrNoTokenAvailable, got %v", err)
	}

	_ = tm.ReleaseToken(ctx)
	if tm.Available() != 1 {
		t.Errorf("expected 1 token after release, got %d", tm.Available())
	}

	_ = tm.ReleaseToken(ctx)
	_ = tm.ReleaseToken(ctx)
	if tm.Available() != 2 {
		t.Errorf("release must not exceed capacity, got %d", tm.Available())
	}
}

func TestLocalTokenManager_InitializeTokens(t *testing.T) {
	tm := NewLocalTokenManager(1)
	if err := tm.InitializeTokens(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if tm.Available() != 5 {
		t.Errorf("expected 5 tokens, got %d", tm.Available())
	}
}

func TestLocalTokenManager_ConcurrentAcquire(t *testing.T) {
	const capacity = 3
	tm := NewLocalTokenManager(capacity)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tm.AcquireToken(context.Background()) == nil {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if granted.Load() != capacity {
		t.Errorf("expected %d grants, got %d", capacity, granted.Load())
	}
}
