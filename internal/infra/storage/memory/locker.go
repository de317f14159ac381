package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pethost/internal/app/policies"
)

// Locker is a process-local keyed mutex. Acquire waits up to Wait for all
// keys and gives up with policies.ErrLockTimeout.
type Locker struct {
	Wait time.Duration

	mu   sync.Mutex
	held map[string]chan struct{}
}

func NewLocker(wait time.Duration) *Locker {
	return &Locker{Wait: wait, held: make(map[string]chan struct{})}
}

func (l *Locker) Acquire(ctx context.Context, keys ...string) (policies.Release, error) {
	keys = uniqueSorted(keys)
	wait := l.Wait
	if wait <= 0 {
		wait = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.lock(ctx, key); err != nil {
			l.unlock(acquired)
			return nil, err
		}
		acquired = append(acquired, key)
	}
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { l.unlock(acquired) })
		return nil
	}, nil
}

func (l *Locker) lock(ctx context.Context, key string) error {
	for {
		l.mu.Lock()
		if l.held == nil {
			l.held = make(map[string]chan struct{})
		}
		ch, busy := l.held[key]
		if !busy {
			l.held[key] = make(chan struct{})
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return policies.ErrLockTimeout
		}
	}
}

func (l *Locker) unlock(keys []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, key := range keys {
		if ch, ok := l.held[key]; ok {
			close(ch)
			delete(l.held, key)
		}
	}
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
