package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bucketlist/internal/client/services"
)

func TestDiscover_PublicFeed(t *testing.T) {
	e := newEnv(t)
	e.backend.AddBucket("bob", "Climb", "Kilimanjaro", false)
	e.backend.AddBucket("cy", "Dive", "Great Barrier Reef", true)

	d := NewDiscover(e.buckets)
	require.NoError(t, d.Load(context.Background()))

	snap := d.Snapshot()
	assert.Equal(t, Ready, snap.State)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "Dive", snap.Items[0].Title, "newest first")
}

func TestDiscover_LikeRefetches(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	id := e.backend.AddBucket("bob", "Climb", "Kilimanjaro", false)
	e.signIn(t, "ana")

	d := NewDiscover(e.buckets)
	require.NoError(t, d.Load(ctx))

	require.NoError(t, d.Like(ctx, id))
	it, ok := d.Item(id)
	require.True(t, ok)
	assert.Equal(t, 1, it.Likes)
	assert.True(t, it.LikedByMe)

	require.NoError(t, d.Like(ctx, id))
	it, _ = d.Item(id)
	assert.Equal(t, 0, it.Likes)
	assert.False(t, it.LikedByMe)
}

func TestDiscover_LikeWithoutSession(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	id := e.backend.AddBucket("bob", "Climb", "Kilimanjaro", false)

	d := NewDiscover(e.buckets)
	require.NoError(t, d.Load(ctx))
	before := e.backend.Calls()

	err := d.Like(ctx, id)
	assert.Equal(t, services.Result{Error: "authentication required"}, services.AsResult(err))
	assert.Equal(t, before, e.backend.Calls())
}

func TestDiscover_CommentRefetches(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	id := e.backend.AddBucket("bob", "Climb", "Kilimanjaro", false)
	e.signIn(t, "ana")

	d := NewDiscover(e.buckets)
	require.NoError(t, d.Load(ctx))

	assert.True(t, services.IsKind(d.Comment(ctx, id, ""), services.KindValidation))

	require.NoError(t, d.Comment(ctx, id, "see you at the top"))
	it, _ := d.Item(id)
	require.Len(t, it.Comments, 1)
	assert.Equal(t, "ana", it.Comments[0].AuthorName)

	thread, err := d.Comments(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, it.Comments, thread)
}

func TestDiscover_ExpiredSessionErrorsAndClears(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signIn(t, "ana")
	e.backend.RevokeAll()

	d := NewDiscover(e.buckets)
	err := d.Load(ctx)
	assert.True(t, services.IsKind(err, services.KindAuth))
	assert.Equal(t, services.MsgSessionExpired, d.Snapshot().Error)

	s, _ := e.store.Get(ctx)
	assert.True(t, s.IsZero())
}
