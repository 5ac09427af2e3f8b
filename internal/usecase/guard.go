package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type LockStore interface {
	Available() bool
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	ReleaseIfOwner(ctx context.Context, key string, value string) error
}

const defaultGuardTTL = 30 * time.Second

// InFlightGuard rejects a second concurrent mutation of the same item by the
// same owner. It uses Redis when available so the guard spans instances and
// falls back to an in-process set otherwise.
type InFlightGuard struct {
	locks  LockStore
	ttl    time.Duration
	logger *log.Logger

	mu    sync.Mutex
	local map[string]struct{}
}

func NewInFlightGuard(locks LockStore, ttl time.Duration, logger *log.Logger) *InFlightGuard {
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &InFlightGuard{locks: locks, ttl: ttl, logger: logger, local: map[string]struct{}{}}
}

func guardKey(owner uuid.UUID, op string) string {
	return "tracker:inflight:" + owner.String() + ":" + op
}

// Acquire returns ErrBusy when op is already running for owner. The returned
// release func must be called once the operation ends.
func (g *InFlightGuard) Acquire(ctx context.Context, owner uuid.UUID, op string) (func(), error) {
	if g == nil {
		return func() {}, nil
	}
	key := guardKey(owner, op)

	if g.locks != nil && g.locks.Available() {
		token := uuid.NewString()
		ok, err := g.locks.SetIfNotExists(ctx, key, token, g.ttl)
		if err == nil {
			if !ok {
				return nil, ErrBusy
			}
			return func() {
				if err := g.locks.ReleaseIfOwner(context.Background(), key, token); err != nil && g.logger != nil {
					g.logger.Printf("[Guard] release failed key=%s err=%v", key, err)
				}
			}, nil
		}
		if g.logger != nil {
			g.logger.Printf("[Guard] redis lock failed, using local guard key=%s err=%v", key, err)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.local[key]; held {
		return nil, ErrBusy
	}
	g.local[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.local, key)
			g.mu.Unlock()
		})
	}, nil
}
