// Package views holds the controllers behind the client's screens. Each one
// owns an in-memory snapshot of server data, moves through
// Idle -> Loading -> Ready|Errored, and re-fetches after every write.
package views

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/services"
)

// State is the lifecycle of a snapshot.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// ErrActionInProgress rejects a second trigger of an action that is still
// waiting for the server.
var ErrActionInProgress = errors.New("action already in progress")

// Snapshot is a copy of a collection's state, safe to keep and render.
type Snapshot struct {
	State State
	Items []models.BucketItem
	Error string
}

type fetchFunc func(ctx context.Context) ([]models.BucketItem, error)

// Collection owns one snapshot of bucket items.
//
// Responses are applied under a mutex in arrival order, so the last response
// wins. After Close, responses are dropped.
type Collection struct {
	fetch fetchFunc

	mu    sync.Mutex
	state State
	items []models.BucketItem
	err   string

	busyMu sync.Mutex
	busy   map[string]struct{}

	closed atomic.Bool
}

func newCollection(fetch fetchFunc) *Collection {
	return &Collection{fetch: fetch, busy: map[string]struct{}{}}
}

// Load fetches the collection and replaces the snapshot. The returned error
// is the fetch error, also recorded in the snapshot.
func (c *Collection) Load(ctx context.Context) error {
	if c.closed.Load() {
		return nil
	}
	c.mu.Lock()
	c.state = Loading
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	if c.closed.Load() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Errored
		c.err = services.AsResult(err).Error
		return err
	}
	c.state = Ready
	c.items = items
	c.err = ""
	return nil
}

func (c *Collection) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]models.BucketItem, len(c.items))
	copy(items, c.items)
	return Snapshot{State: c.state, Items: items, Error: c.err}
}

// Item returns the item with id from the current snapshot.
func (c *Collection) Item(id int64) (models.BucketItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.BucketItem{}, false
}

// Close detaches the controller; late responses become no-ops.
func (c *Collection) Close() {
	c.closed.Store(true)
}

func (c *Collection) Closed() bool {
	return c.closed.Load()
}

// mutate runs write once per key at a time and re-fetches on success.
// A failed write leaves the snapshot untouched.
func (c *Collection) mutate(ctx context.Context, key string, write func(context.Context) error) error {
	c.busyMu.Lock()
	if _, ok := c.busy[key]; ok {
		c.busyMu.Unlock()
		return ErrActionInProgress
	}
	c.busy[key] = struct{}{}
	c.busyMu.Unlock()

	defer func() {
		c.busyMu.Lock()
		delete(c.busy, key)
		c.busyMu.Unlock()
	}()

	if err := write(ctx); err != nil {
		return err
	}
	// the write stands even if the refresh fails; the snapshot shows the error
	_ = c.Load(ctx)
	return nil
}
