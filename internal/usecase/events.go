package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Collection string

const (
	CollectionApplications Collection = "applications"
	CollectionStats        Collection = "stats"
	CollectionResumes      Collection = "resumes"
)

// Invalidation tells subscribers that an owner's cached views of the listed
// collections are stale.
type Invalidation struct {
	OwnerID     uuid.UUID
	Collections []Collection
	Reason      string
	At          time.Time
}

type EventPublisher interface {
	PublishInvalidation(ctx context.Context, evt Invalidation)
}

// Publishers fans an event out to every subscriber in order.
type Publishers []EventPublisher

func (ps Publishers) PublishInvalidation(ctx context.Context, evt Invalidation) {
	for _, p := range ps {
		if p != nil {
			p.PublishInvalidation(ctx, evt)
		}
	}
}

func publish(ctx context.Context, p EventPublisher, owner uuid.UUID, reason string, cols ...Collection) {
	if p == nil {
		return
	}
	p.PublishInvalidation(context.WithoutCancel(ctx), Invalidation{
		OwnerID:     owner,
		Collections: cols,
		Reason:      reason,
		At:          time.Now().UTC(),
	})
}
