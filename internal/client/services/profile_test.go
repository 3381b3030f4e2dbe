package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
)

func strp(s string) *string { return &s }

func TestProfile_GetAndStats(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signIn(t, "ana", "x")
	e.backend.AddBucket("ana", "a", "d", false)
	e.backend.AddBucket("ana", "b", "d", true)
	e.backend.AddBucket("bob", "c", "d", true)

	u, err := e.profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)

	stats, err := e.profile.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileStats{BucketItems: 2, Completed: 1, ActiveGoals: 1}, stats)
}

func TestProfile_StatsSnakeCase(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{respond: replyJSON(`{"total_buckets":5,"complete_buckets":2,"active_buckets":3}`)}
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(ctx, models.Session{AccessToken: "t"}))
	svc := NewProfileService(fc, store, NewAuthService(fc, store, nil))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileStats{BucketItems: 5, Completed: 2, ActiveGoals: 3}, stats)
}

func TestProfile_UpdateRefreshesCachedUser(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signIn(t, "ana", "x")
	id := e.backend.AddBucket("ana", "a", "d", false)

	u, err := e.profile.Update(ctx, models.ProfileUpdate{Username: strp("ana2"), Bio: strp("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ana2", u.Username)
	assert.Equal(t, "hi", u.Bio)

	s, _ := e.store.Get(ctx)
	assert.Equal(t, "ana2", s.User.Username)

	item, err := e.buckets.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana2", item.OwnerName)
}

func TestProfile_UpdateValidation(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(ctx, models.Session{AccessToken: "t"}))
	svc := NewProfileService(fc, store, NewAuthService(fc, store, nil))

	_, err := svc.Update(ctx, models.ProfileUpdate{})
	assert.Equal(t, Result{Error: "nothing to update"}, AsResult(err))
	_, err = svc.Update(ctx, models.ProfileUpdate{Username: strp("")})
	assert.Equal(t, Result{Error: "username is required"}, AsResult(err))
	assert.Zero(t, fc.calls())
}

func TestProfile_RequiresSession(t *testing.T) {
	fc := &fakeClient{}
	store := session.NewMemoryStore()
	svc := NewProfileService(fc, store, NewAuthService(fc, store, nil))

	_, err := svc.Get(context.Background())
	assert.Equal(t, Result{Error: MsgAuthRequired}, AsResult(err))
	assert.Zero(t, fc.calls())
}
