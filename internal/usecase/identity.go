package usecase

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller. Every manager call takes it
// explicitly; the zero value is unauthenticated.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

func requireIdentity(id Identity) error {
	if !id.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	if f == nil {
		return false
	}
	return f(ctx, prompt)
}

// Confirmed answers every prompt with ok.
func Confirmed(ok bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) bool { return ok })
}

func confirmed(ctx context.Context, c Confirmer, prompt string) bool {
	if c == nil {
		return false
	}
	return c.Confirm(ctx, prompt)
}
