package lock

import (
	"context"
	"errors"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/ports"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the key only if it still holds our token, so an expired lock
// re-acquired by someone else is never released by us.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOrderLocker serializes work per order across service instances.
type RedisOrderLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

var _ ports.OrderLocker = (*RedisOrderLocker)(nil)

func NewRedisOrderLocker(client redis.UniversalClient, ttl, wait time.Duration) (*RedisOrderLocker, error) {
	if client == nil {
		return nil, errors.New("new redis order locker: client is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("new redis order locker: ttl must be positive, got %s", ttl)
	}

	return &RedisOrderLocker{
		client: client,
		prefix: "order-lock:",
		ttl:    ttl,
		wait:   wait,
		retry:  25 * time.Millisecond,
	}, nil
}

func (l *RedisOrderLocker) key(orderID int64) string {
	return l.prefix + strconv.FormatInt(orderID, 10)
}

func (l *RedisOrderLocker) Lock(ctx context.Context, orderID int64) (func(), error) {
	key := l.key(orderID)
	token := uuid.NewString()

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("lock order %d: setnx: %w", orderID, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock order %d: %w", orderID, domain.ErrLockTimeout)
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Release with a fresh context; the caller's may already be done.
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := unlockScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
				log.Printf("op=lock.unlock order=%d err=%v", orderID, err)
			}
		})
	}, nil
}
