package views

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/services"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
	"github.com/dmitrijs2005/bucketlist/internal/fakebackend"
)

type env struct {
	backend *fakebackend.Backend
	store   session.Store
	auth    services.AuthService
	buckets services.BucketService
	profile services.ProfileService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	b := fakebackend.New()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	c, err := client.NewHTTPClient(srv.URL + "/api/")
	require.NoError(t, err)

	e := &env{backend: b, store: session.NewMemoryStore()}
	e.auth = services.NewAuthService(c, e.store, nil)
	e.buckets = services.NewBucketService(c, e.store, e.auth, afero.NewMemMapFs(), nil)
	e.profile = services.NewProfileService(c, e.store, e.auth)
	t.Cleanup(e.auth.Wait)
	return e
}

func (e *env) signIn(t *testing.T, username string) {
	t.Helper()
	e.backend.AddUser(username, username+"@example.com", "pw")
	require.NoError(t, e.auth.Login(context.Background(), username, "pw"))
}

// blockingBuckets lets a test hold a call open until release is closed.
type blockingBuckets struct {
	services.BucketService
	started chan struct{}
	release chan struct{}
	items   []models.BucketItem
}

func newBlockingBuckets(items ...models.BucketItem) *blockingBuckets {
	return &blockingBuckets{started: make(chan struct{}, 8), release: make(chan struct{}), items: items}
}

func (b *blockingBuckets) List(ctx context.Context) ([]models.BucketItem, error) {
	b.started <- struct{}{}
	<-b.release
	return b.items, nil
}

func (b *blockingBuckets) Like(ctx context.Context, id int64) (services.LikeResult, error) {
	b.started <- struct{}{}
	<-b.release
	return services.LikeResult{Likes: 1, Liked: true}, nil
}
