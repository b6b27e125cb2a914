package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Freeeeeet/timeslot_bot/internal/model"
	"github.com/Freeeeeet/timeslot_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDelegateService(t *testing.T) (*DelegateService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timmie.json")
	doc, err := repository.NewFileDocument(path, model.DelegateGrants{})
	require.NoError(t, err)
	return NewDelegateService(doc, zap.NewNop()), path
}

func TestAuthorizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDelegateService(t)

	require.NoError(t, svc.Authorize(ctx, studentX, instructorA))
	require.NoError(t, svc.Authorize(ctx, studentX, instructorA))
	require.NoError(t, svc.Authorize(ctx, studentX, instructorB))

	grants, err := svc.GrantsFor(ctx, studentX)
	require.NoError(t, err)
	assert.Equal(t, []int64{instructorA, instructorB}, grants)
}

func TestGrantsForUnknownUser(t *testing.T) {
	svc, _ := newDelegateService(t)

	grants, err := svc.GrantsFor(context.Background(), studentY)
	require.NoError(t, err)
	assert.NotNil(t, grants)
	assert.Empty(t, grants)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	svc, path := newDelegateService(t)

	require.NoError(t, svc.Authorize(ctx, studentX, instructorA))
	require.NoError(t, svc.Authorize(ctx, studentX, instructorB))

	require.NoError(t, svc.Revoke(ctx, studentX, instructorA))
	grants, err := svc.GrantsFor(ctx, studentX)
	require.NoError(t, err)
	assert.Equal(t, []int64{instructorB}, grants)

	// Повторный отзыв и отзыв у незнакомого пользователя ничего не ломают
	require.NoError(t, svc.Revoke(ctx, studentX, instructorA))
	require.NoError(t, svc.Revoke(ctx, studentY, instructorA))

	require.NoError(t, svc.Revoke(ctx, studentX, instructorB))

	reopened, err := repository.NewFileDocument(path, model.DelegateGrants{})
	require.NoError(t, err)
	stored, err := reopened.Read(ctx)
	require.NoError(t, err)
	assert.NotContains(t, stored, studentX, "empty grant list is removed")
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDelegateService(t)

	require.NoError(t, svc.Authorize(ctx, studentX, instructorA))
	require.NoError(t, svc.Authorize(ctx, studentX, instructorB))
	require.NoError(t, svc.Authorize(ctx, studentY, instructorA))

	require.NoError(t, svc.ClearAll(ctx, studentX))
	require.NoError(t, svc.ClearAll(ctx, studentX))

	grants, err := svc.GrantsFor(ctx, studentX)
	require.NoError(t, err)
	assert.Empty(t, grants)

	grants, err = svc.GrantsFor(ctx, studentY)
	require.NoError(t, err)
	assert.Equal(t, []int64{instructorA}, grants)
}

func TestDelegatesOf(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDelegateService(t)

	require.NoError(t, svc.Authorize(ctx, studentY, instructorA))
	require.NoError(t, svc.Authorize(ctx, studentX, instructorA))
	require.NoError(t, svc.Authorize(ctx, studentX, instructorB))

	delegates, err := svc.DelegatesOf(ctx, instructorA)
	require.NoError(t, err)
	assert.Equal(t, []int64{studentX, studentY}, delegates)

	delegates, err = svc.DelegatesOf(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, delegates)
}
