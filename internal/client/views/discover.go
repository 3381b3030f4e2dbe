package views

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/services"
)

// Discover is the community feed: every item, newest first as served.
type Discover struct {
	*Collection
	buckets services.BucketService
}

func NewDiscover(buckets services.BucketService) *Discover {
	return &Discover{Collection: newCollection(buckets.List), buckets: buckets}
}

// Like toggles the caller's like on id.
func (d *Discover) Like(ctx context.Context, id int64) error {
	return d.mutate(ctx, fmt.Sprintf("like:%d", id), func(ctx context.Context) error {
		_, err := d.buckets.Like(ctx, id)
		return err
	})
}

func (d *Discover) Comment(ctx context.Context, id int64, text string) error {
	return d.mutate(ctx, fmt.Sprintf("comment:%d", id), func(ctx context.Context) error {
		_, err := d.buckets.AddComment(ctx, id, text)
		return err
	})
}

// Comments reads the comment thread of id without touching the snapshot.
func (d *Discover) Comments(ctx context.Context, id int64) ([]models.Comment, error) {
	return d.buckets.Comments(ctx, id)
}
