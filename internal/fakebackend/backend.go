// Package fakebackend is an in-memory stand-in for the bucket-list REST
// backend. It serves the same routes and JSON shapes and backs the client
// tests and cmd/fakeserver.
package fakebackend

import (
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
)

type user struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Location  string
	Bio       string
}

type comment struct {
	ID        int64
	Author    string
	Text      string
	CreatedAt time.Time
}

type bucket struct {
	ID          int64
	Owner       string
	Title       string
	Description string
	Image       string
	Completed   bool
	Upvoters    map[string]bool
	Comments    []comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Backend holds all state behind a mutex. The zero value is not usable; call New.
type Backend struct {
	mu       sync.Mutex
	secret   []byte
	validity time.Duration
	now      func() time.Time

	users    map[string]*user
	buckets  map[int64]*bucket
	nextID   int64
	tokens   map[string]*user
	failures map[string]int

	calls  atomic.Int64
	router *mux.Router
}

// Option configures a Backend.
type Option func(*Backend)

// WithTokenValidity sets the lifetime of issued access tokens.
func WithTokenValidity(d time.Duration) Option {
	return func(b *Backend) { b.validity = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithSecret sets the HS256 signing key.
func WithSecret(secret []byte) Option {
	return func(b *Backend) { b.secret = secret }
}

func New(opts ...Option) *Backend {
	b := &Backend{
		secret:   []byte("fake-backend-secret"),
		validity: time.Hour,
		now:      time.Now,
		users:    map[string]*user{},
		buckets:  map[int64]*bucket{},
		tokens:   map[string]*user{},
		failures: map[string]int{},
	}
	for _, o := range opts {
		o(b)
	}
	b.router = b.routes()
	return b
}

func (b *Backend) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(b.countCalls, b.injectFailures)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/accounts/login/", b.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/accounts/signup/", b.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/accounts/logout/", b.authenticated(b.handleLogout)).Methods(http.MethodPost)
	api.HandleFunc("/accounts/password/change/", b.authenticated(b.handleChangePassword)).Methods(http.MethodPost)
	api.HandleFunc("/accounts/profile/", b.authenticated(b.handleProfile)).Methods(http.MethodGet)
	api.HandleFunc("/accounts/profile/", b.authenticated(b.handleProfileUpdate)).Methods(http.MethodPatch)
	api.HandleFunc("/accounts/profile/stats/", b.authenticated(b.handleStats)).Methods(http.MethodGet)

	api.HandleFunc("/buckets/", b.optionalAuth(b.handleList)).Methods(http.MethodGet)
	api.HandleFunc("/buckets/", b.authenticated(b.handleCreate)).Methods(http.MethodPost)
	api.HandleFunc("/buckets/{id:[0-9]+}/", b.optionalAuth(b.handleDetail)).Methods(http.MethodGet)
	api.HandleFunc("/buckets/{id:[0-9]+}/", b.authenticated(b.handlePatch)).Methods(http.MethodPatch)
	api.HandleFunc("/buckets/{id:[0-9]+}/", b.authenticated(b.handleDelete)).Methods(http.MethodDelete)
	api.HandleFunc("/buckets/{id:[0-9]+}/toggle-complete/", b.authenticated(b.handleToggle)).Methods(http.MethodPost)
	api.HandleFunc("/buckets/{id:[0-9]+}/upvote/", b.authenticated(b.handleUpvote)).Methods(http.MethodPost)
	api.HandleFunc("/buckets/{id:[0-9]+}/comments/", b.authenticated(b.handleComments)).Methods(http.MethodGet)
	api.HandleFunc("/buckets/{id:[0-9]+}/comments/", b.authenticated(b.handleAddComment)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})
	return r
}

// ServeHTTP serves the API under /api/.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Calls returns the number of requests received so far.
func (b *Backend) Calls() int {
	return int(b.calls.Load())
}

// AddUser registers a user directly, bypassing signup.
func (b *Backend) AddUser(username, email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addUserLocked(&user{Username: username, Email: email, Password: password})
}

func (b *Backend) addUserLocked(u *user) {
	b.nextID++
	u.ID = b.nextID
	b.users[u.Username] = u
}

// AddBucket stores an item owned by owner and returns its id.
func (b *Backend) AddBucket(owner, title, description string, completed bool) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addBucketLocked(owner, title, description, completed).ID
}

func (b *Backend) addBucketLocked(owner, title, description string, completed bool) *bucket {
	b.nextID++
	now := b.now()
	b.buckets[b.nextID] = &bucket{
		ID:          b.nextID,
		Owner:       owner,
		Title:       title,
		Description: description,
		Completed:   completed,
		Upvoters:    map[string]bool{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return b.buckets[b.nextID]
}

// RevokeAll makes every token issued so far invalid, as if it had expired.
func (b *Backend) RevokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.tokens)
}

// FailNext makes the next n requests whose path ends with suffix fail with
// a 500.
func (b *Backend) FailNext(suffix string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[suffix] = n
}

func (b *Backend) sortedBuckets() []*bucket {
	out := make([]*bucket, 0, len(b.buckets))
	for _, it := range b.buckets {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
