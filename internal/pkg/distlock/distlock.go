// Package distlock provides a distributed lock so that exactly one worker
// instance runs a given periodic job (the session-reminder scan) at a time,
// regardless of how many processes are deployed.
package distlock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tutorlink:lock:"

// DistLock is the interface for distributed locking. A lock instance
// belongs to a single goroutine; concurrent holders need separate
// instances.
type DistLock interface {
	// Acquire tries to take the lock without blocking. True on success.
	Acquire(ctx context.Context) (bool, error)
	// Release gives the lock back if this instance still owns it.
	Release(ctx context.Context) error
}

// NewLock picks the best available backend: redis when a client is
// configured (cross-host), otherwise a Postgres advisory lock.
func NewLock(redisClient *redis.Client, db *sql.DB, key string, ttl time.Duration) DistLock {
	if redisClient != nil {
		return NewRedisLock(redisClient, key, ttl)
	}
	return NewPGAdvisoryLock(db, key)
}

// PGAdvisoryLock wraps pg_try_advisory_lock / pg_advisory_unlock. Advisory
// locks are session-scoped, so a crashed holder's lock clears when its
// connection drops, much like a redis TTL expiring.
type PGAdvisoryLock struct {
	db     *sql.DB
	lockID int64
}

// NewPGAdvisoryLock derives a stable 64-bit lock id from the key.
func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(keyPrefix + key))
	return &PGAdvisoryLock{db: db, lockID: int64(h.Sum64())}
}

func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	var got bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&got)
	if err != nil {
		return false, err
	}
	return got, nil
}

func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}
