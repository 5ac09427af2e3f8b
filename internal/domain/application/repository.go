package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("application not found")

// ListFilter narrows an owner's applications. Search matches company or
// job title case-insensitively; an empty Status means every status.
type ListFilter struct {
	Search string
	Status Status
}

type Repository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Application, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (Application, error)
	Insert(ctx context.Context, a Application) (Application, error)
	Update(ctx context.Context, a Application) (Application, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
