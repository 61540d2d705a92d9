package repository

import (
	"context"
	"time"
)

// RunLockRepository serializes whole-pipeline invocations so two overlapping
// batch triggers cannot select the same listings.
type RunLockRepository interface {
	// Acquire takes the run lock with the given token and TTL. It returns
	// false when another invocation currently holds the lock. The TTL is
	// the crash-recovery bound: a run that dies without releasing simply
	// lets the lease expire.
	Acquire(ctx context.Context, token string, ttl time.Duration) (bool, error)
	// Release frees the lock if token still owns it.
	Release(ctx context.Context, token string) error
}
