package services

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
	"github.com/dmitrijs2005/bucketlist/internal/fakebackend"
)

// ---- fake client ----

// fakeClient records every request and answers through respond.
type fakeClient struct {
	mu       sync.Mutex
	requests []client.Request
	respond  func(req client.Request, out any) error
}

func (f *fakeClient) Do(_ context.Context, req client.Request, out any) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return nil
	}
	return respond(req, out)
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeClient) last() client.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func replyJSON(body string) func(client.Request, any) error {
	return func(_ client.Request, out any) error {
		if out == nil {
			return nil
		}
		return json.Unmarshal([]byte(body), out)
	}
}

func replyErr(err error) func(client.Request, any) error {
	return func(client.Request, any) error { return err }
}

// ---- fake backend environment ----

type env struct {
	backend *fakebackend.Backend
	store   *session.MemoryStore
	fs      afero.Fs
	auth    AuthService
	buckets BucketService
	profile ProfileService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	b := fakebackend.New()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	c, err := client.NewHTTPClient(srv.URL + "/api/")
	require.NoError(t, err)

	e := &env{backend: b, store: session.NewMemoryStore(), fs: afero.NewMemMapFs()}
	e.auth = NewAuthService(c, e.store, nil)
	e.buckets = NewBucketService(c, e.store, e.auth, e.fs, nil)
	e.profile = NewProfileService(c, e.store, e.auth)
	t.Cleanup(e.auth.Wait)
	return e
}

func (e *env) signIn(t *testing.T, username, password string) {
	t.Helper()
	e.backend.AddUser(username, username+"@example.com", password)
	require.NoError(t, e.auth.Login(context.Background(), username, password))
}
