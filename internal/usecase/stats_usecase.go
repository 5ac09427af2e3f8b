package usecase

import (
	"context"
	"log"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/stats"

	"golang.org/x/sync/singleflight"
)

type StatsUsecase struct {
	repo   application.Repository
	cache  ReadCache
	group  singleflight.Group
	logger *log.Logger
}

func NewStatsUsecase(repo application.Repository, cache ReadCache, logger *log.Logger) *StatsUsecase {
	return &StatsUsecase{repo: repo, cache: cache, logger: logger}
}

// Get returns the owner's dashboard statistics. Concurrent refetches for the
// same owner share one store read unless an invalidation lands between them.
func (u *StatsUsecase) Get(ctx context.Context, id Identity) (stats.Stats, error) {
	if err := requireIdentity(id); err != nil {
		return stats.Stats{}, err
	}

	key := viewKey(ctx, u.cache, CollectionStats, id.UserID)
	var cached stats.Stats
	if cacheGet(ctx, u.cache, key, &cached) {
		return cached, nil
	}

	v, err, _ := u.group.Do(key, func() (any, error) {
		apps, err := u.repo.ListByOwner(context.WithoutCancel(ctx), id.UserID, application.ListFilter{})
		if err != nil {
			return nil, err
		}
		s := stats.Aggregate(apps)
		cacheSet(ctx, u.cache, key, s)
		return s, nil
	})
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Stats] load failed owner=%s err=%v", id.UserID, err)
		}
		return stats.Stats{}, ErrInternal
	}
	return v.(stats.Stats), nil
}
