package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"pethost/internal/app/policies"
)

const keyPrefix = "pethost:lock:"

// releaseScript deletes a key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker takes per-resource locks with SET NX PX. Keys are acquired in
// sorted order; a key expires after TTL if its holder dies.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func New(client *redis.Client, ttl, wait time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = 3 * time.Second
	}
	return &Locker{client: client, ttl: ttl, wait: wait, retry: 50 * time.Millisecond}
}

func NewClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password})
}

func (l *Locker) Acquire(ctx context.Context, keys ...string) (policies.Release, error) {
	keys = uniqueSorted(keys)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	held := make([]string, 0, len(keys))
	release := func(ctx context.Context) error {
		var errList []error
		for _, key := range held {
			if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				errList = append(errList, fmt.Errorf("release %s: %w", key, err))
			}
		}
		return errors.Join(errList...)
	}

	for _, key := range keys {
		full := keyPrefix + key
		for {
			ok, err := l.client.SetNX(ctx, full, token, l.ttl).Result()
			if err != nil {
				_ = release(context.WithoutCancel(ctx))
				return nil, fmt.Errorf("redis lock %s: %w", key, err)
			}
			if ok {
				held = append(held, full)
				break
			}
			if time.Now().After(deadline) {
				_ = release(context.WithoutCancel(ctx))
				return nil, policies.ErrLockTimeout
			}
			select {
			case <-ctx.Done():
				_ = release(context.WithoutCancel(ctx))
				return nil, ctx.Err()
			case <-time.After(l.retry):
			}
		}
	}
	return release, nil
}

func (l *Locker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func uniqueSorted(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var _ policies.Locker = (*Locker)(nil)
