// Package admission bounds how many diagnostic queries may run at once,
// either inside one process or across replicas sharing a redis list.
package admission

import (
	"context"
	"errors"
)

type TokenManager interface {
	// AcquireToken takes a token without waiting; ErrNoTokenAvailable when none is left.
	AcquireToken(ctx context.Context) error

	ReleaseToken(ctx context.Context) error

	// InitializeTokens resets the manager to hold exactly count tokens.
	InitializeTokens(ctx context.Context, count int) error
}

var ErrNoTokenAvailable = errors.New("no admission token available")
