package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ReadCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// GenerationStore keeps view generations shared across processes.
type GenerationStore interface {
	Available() bool
	Incr(ctx context.Context, key string) (int64, error)
	GetInt(ctx context.Context, key string) (int64, error)
}

type generationCounter struct {
	mu sync.Mutex
	m  map[string]int64
}

func (g *generationCounter) get(key string) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m[key]
}

func (g *generationCounter) incr(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.m[key]++
}

// localGenerations backs view generations when no shared store answers.
var localGenerations = &generationCounter{m: map[string]int64{}}

func generationKey(c Collection, owner uuid.UUID) string {
	return "tracker:gen:" + string(c) + ":" + owner.String()
}

// viewGeneration names the current generation of one owner's collection.
// Loads started under an older generation cache under keys no reader asks for.
func viewGeneration(ctx context.Context, cache ReadCache, c Collection, owner uuid.UUID) string {
	key := generationKey(c, owner)
	if gs, ok := cache.(GenerationStore); ok && gs.Available() {
		if n, err := gs.GetInt(ctx, key); err == nil {
			return "r" + strconv.FormatInt(n, 10)
		}
	}
	return "l" + strconv.FormatInt(localGenerations.get(key), 10)
}

func bumpGeneration(ctx context.Context, cache ReadCache, c Collection, owner uuid.UUID) error {
	key := generationKey(c, owner)
	localGenerations.incr(key)
	if gs, ok := cache.(GenerationStore); ok && gs.Available() {
		if _, err := gs.Incr(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func normalizeSearchValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// CollectionCachePrefix is the key prefix for every cached view of one
// owner's collection.
func CollectionCachePrefix(c Collection, owner uuid.UUID) string {
	return "tracker:" + string(c) + ":" + owner.String() + ":"
}

// CollectionCacheKey names one cached view; parts distinguish filters.
func CollectionCacheKey(c Collection, owner uuid.UUID, parts ...string) string {
	norm := make([]string, 0, len(parts))
	for _, p := range parts {
		norm = append(norm, normalizeSearchValue(p))
	}
	sum := sha256.Sum256([]byte(strings.Join(norm, "\x1f")))
	return CollectionCachePrefix(c, owner) + hex.EncodeToString(sum[:8])
}

// viewKey is CollectionCacheKey scoped to the collection's current generation.
func viewKey(ctx context.Context, cache ReadCache, c Collection, owner uuid.UUID, parts ...string) string {
	gen := viewGeneration(ctx, cache, c, owner)
	return CollectionCacheKey(c, owner, append([]string{gen}, parts...)...)
}

// CacheInvalidator drops cached views named by invalidation events.
type CacheInvalidator struct {
	cache  ReadCache
	logger *log.Logger
}

func NewCacheInvalidator(cache ReadCache, logger *log.Logger) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, logger: logger}
}

func (i *CacheInvalidator) PublishInvalidation(ctx context.Context, evt Invalidation) {
	if i == nil {
		return
	}
	for _, c := range evt.Collections {
		if err := bumpGeneration(ctx, i.cache, c, evt.OwnerID); err != nil && i.logger != nil {
			i.logger.Printf("[Cache] generation bump failed owner=%s collection=%s err=%v", evt.OwnerID, c, err)
		}
		if i.cache == nil {
			continue
		}
		pattern := CollectionCachePrefix(c, evt.OwnerID) + "*"
		if err := i.cache.DeleteByPattern(ctx, pattern); err != nil && i.logger != nil {
			i.logger.Printf("[Cache] invalidate failed owner=%s collection=%s err=%v", evt.OwnerID, c, err)
		}
	}
}

func cacheGet(ctx context.Context, c ReadCache, key string, out any) bool {
	if c == nil {
		return false
	}
	hit, err := c.GetJSON(ctx, key, out)
	return err == nil && hit
}

func cacheSet(ctx context.Context, c ReadCache, key string, value any) {
	if c == nil {
		return
	}
	_ = c.SetJSON(ctx, key, value, 0)
}
