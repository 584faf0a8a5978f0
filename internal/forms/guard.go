package forms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSubmissionInFlight is returned while an earlier submission for the same
// key has not resolved
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// DefaultGuardTTL bounds how long a crashed submission can hold its key
const DefaultGuardTTL = 2 * time.Minute

// Guard admits one holder per key at a time
type Guard interface {
	// Acquire claims key. It returns ErrSubmissionInFlight when the key is held.
	Acquire(ctx context.Context, key string) (release func(), err error)
	// Held reports whether key is currently claimed
	Held(ctx context.Context, key string) bool
}

// releaseScript deletes the key only if it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard stores claims as SET NX PX keys so every server instance sees them
type RedisGuard struct {
	redis     *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewRedisGuard creates a guard backed by redisClient
func NewRedisGuard(redisClient *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &RedisGuard{redis: redisClient, ttl: ttl, keyPrefix: "submission_inflight"}
}

func (g *RedisGuard) key(key string) string {
	return fmt.Sprintf("%s:%s", g.keyPrefix, key)
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := g.redis.SetNX(ctx, g.key(key), token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submission guard: %w", err)
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}

	return func() {
		// The request context may already be done by the time we release
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		releaseScript.Run(ctx, g.redis, []string{g.key(key)}, token)
	}, nil
}

func (g *RedisGuard) Held(ctx context.Context, key string) bool {
	n, err := g.redis.Exists(ctx, g.key(key)).Result()
	return err == nil && n > 0
}

// LocalGuard is the in-process Guard used when Redis is not configured
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]uint64
	next uint64
}

// NewLocalGuard creates an empty LocalGuard
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]uint64)}
}

func (g *LocalGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return nil, ErrSubmissionInFlight
	}
	g.next++
	token := g.next
	g.held[key] = token

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.held[key] == token {
			delete(g.held, key)
		}
	}, nil
}

func (g *LocalGuard) Held(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[key]
	return ok
}
