package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/services"
)

// MyBucket shows the signed-in user's items. Ownership is recomputed from
// the session on every fetch.
type MyBucket struct {
	*Collection
	buckets services.BucketService

	filterMu sync.Mutex
	filter   models.Filter
}

func NewMyBucket(buckets services.BucketService, auth services.AuthService) *MyBucket {
	m := &MyBucket{buckets: buckets, filter: models.FilterAll}
	m.Collection = newCollection(func(ctx context.Context) ([]models.BucketItem, error) {
		s, err := auth.Session(ctx)
		if err != nil {
			return nil, err
		}
		items, err := buckets.List(ctx)
		if err != nil {
			return nil, err
		}
		return models.OwnedBy(items, s.User.Username), nil
	})
	return m
}

func (m *MyBucket) SetFilter(f models.Filter) {
	m.filterMu.Lock()
	m.filter = f
	m.filterMu.Unlock()
}

func (m *MyBucket) Filter() models.Filter {
	m.filterMu.Lock()
	defer m.filterMu.Unlock()
	return m.filter
}

// Snapshot returns the owned items that pass the current filter.
func (m *MyBucket) Snapshot() Snapshot {
	snap := m.Collection.Snapshot()
	snap.Items = m.Filter().Apply(snap.Items)
	return snap
}

// Counts is the number of owned items per filter tab.
type Counts struct {
	All       int
	Active    int
	Completed int
}

func (m *MyBucket) Counts() Counts {
	items := m.Collection.Snapshot().Items
	c := Counts{All: len(items)}
	for _, it := range items {
		if it.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

func (m *MyBucket) Create(ctx context.Context, d models.BucketDraft) error {
	return m.mutate(ctx, "create", func(ctx context.Context) error {
		_, err := m.buckets.Create(ctx, d)
		return err
	})
}

func (m *MyBucket) Edit(ctx context.Context, id int64, p models.BucketPatch) error {
	return m.mutate(ctx, fmt.Sprintf("edit:%d", id), func(ctx context.Context) error {
		_, err := m.buckets.Patch(ctx, id, p)
		return err
	})
}

func (m *MyBucket) Delete(ctx context.Context, id int64) error {
	return m.mutate(ctx, fmt.Sprintf("delete:%d", id), func(ctx context.Context) error {
		return m.buckets.Delete(ctx, id)
	})
}

func (m *MyBucket) ToggleComplete(ctx context.Context, id int64) error {
	return m.mutate(ctx, fmt.Sprintf("toggle:%d", id), func(ctx context.Context) error {
		_, err := m.buckets.ToggleComplete(ctx, id)
		return err
	})
}
