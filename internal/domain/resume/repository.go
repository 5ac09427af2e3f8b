package resume

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resume not found")

type Repository interface {
	// ListByOwner returns newest first; search matches the profile title.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, search string) ([]Resume, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (Resume, error)
	// Upsert inserts r or, when r.ID exists for the same owner, replaces its
	// title, description and url. A row owned by someone else is ErrNotFound.
	Upsert(ctx context.Context, r Resume) (Resume, error)
	ClearURL(ctx context.Context, ownerID, id uuid.UUID) (Resume, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
