package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInFlightGuard_Local(t *testing.T) {
	g := NewInFlightGuard(nil, 0, nil)
	owner := uuid.New()
	ctx := context.Background()

	release, err := g.Acquire(ctx, owner, "resumes:create")
	require.NoError(t, err)

	_, err = g.Acquire(ctx, owner, "resumes:create")
	assert.True(t, errors.Is(err, ErrBusy))

	other, err := g.Acquire(ctx, uuid.New(), "resumes:create")
	require.NoError(t, err, "other owners are not blocked")
	other()

	release()
	release()

	again, err := g.Acquire(ctx, owner, "resumes:create")
	require.NoError(t, err)
	again()
}

func TestInFlightGuard_Redis(t *testing.T) {
	locks := newFakeLocks()
	g := NewInFlightGuard(locks, 0, nil)
	owner := uuid.New()
	ctx := context.Background()

	release, err := g.Acquire(ctx, owner, "applications:create")
	require.NoError(t, err)
	assert.Contains(t, locks.held, guardKey(owner, "applications:create"))

	_, err = g.Acquire(ctx, owner, "applications:create")
	assert.True(t, errors.Is(err, ErrBusy))

	release()
	assert.Empty(t, locks.held)
}

func TestInFlightGuard_FallsBackWhenRedisFails(t *testing.T) {
	locks := newFakeLocks()
	locks.failErr = errStoreDown
	g := NewInFlightGuard(locks, 0, nil)
	owner := uuid.New()

	release, err := g.Acquire(context.Background(), owner, "op")
	require.NoError(t, err)
	_, err = g.Acquire(context.Background(), owner, "op")
	assert.True(t, errors.Is(err, ErrBusy))
	release()
}

func TestInFlightGuard_Nil(t *testing.T) {
	var g *InFlightGuard
	release, err := g.Acquire(context.Background(), uuid.New(), "op")
	require.NoError(t, err)
	release()
}
