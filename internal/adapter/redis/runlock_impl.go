package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKey = "pipeline:run_lock"

// releaseScript deletes the lock only when the caller still owns it, so an
// invocation that outlived its lease cannot free a successor's lock.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RunLockRepoImpl provides a concrete implementation for the RunLockRepository interface using Redis.
type RunLockRepoImpl struct {
	client *redis.Client
}

// NewRunLockRepo creates a new instance of RunLockRepoImpl.
func NewRunLockRepo(client *redis.Client) *RunLockRepoImpl {
	return &RunLockRepoImpl{client: client}
}

// Acquire takes the run lock with the given token and TTL.
// SET NX is atomic; the TTL bounds how long a crashed run can hold the lock.
func (r *RunLockRepoImpl) Acquire(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, runLockKey, token, ttl).Result()
}

// Release frees the lock if token still owns it.
func (r *RunLockRepoImpl) Release(ctx context.Context, token string) error {
	return r.client.Eval(ctx, releaseScript, []string{runLockKey}, token).Err()
}
