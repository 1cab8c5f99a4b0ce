package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("calendar lock not acquired")

// Locker serializes the check-then-book critical section per master. Two
// concurrent bookings for the same owner cannot both pass the availability
// check while one holds the lock; bookings for different owners never wait
// on each other.
type Locker interface {
	WithOwnerLock(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error
}

type redisOwnerLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOwnerLocker creates a locker keyed on the owner's calendar.
func NewRedisOwnerLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisOwnerLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisOwnerLocker) WithOwnerLock(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:calendar:%s", ownerID.String())
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire calendar lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisOwnerLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release calendar lock: %w", err)
	}
	return nil
}
