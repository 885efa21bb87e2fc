package infra

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCandadoOcupado is returned when another holder owns the lock.
var ErrCandadoOcupado = errors.New("lock held by another process")

// release only if the stored token is still ours
var liberarScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLock is a single-key SET NX PX lock shared by every process that can
// rebuild the product table.
type RedisLock struct {
	rdb   *redis.Client
	clave string
	ttl   time.Duration
}

func NewRedisLock(rdb *redis.Client, clave string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisLock{rdb: rdb, clave: clave, ttl: ttl}
}

// Adquirir takes the lock without waiting. The returned func releases it.
func (l *RedisLock) Adquirir(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.clave, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCandadoOcupado
	}
	return func(ctx context.Context) error {
		return liberarScript.Run(ctx, l.rdb, []string{l.clave}, token).Err()
	}, nil
}
