package views

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/services"
	"github.com/dmitrijs2005/bucketlist/internal/logging"
)

// ProfileSnapshot is a copy of the profile screen's state. HasStats is false
// when the statistics could not be loaded; the profile itself still renders.
type ProfileSnapshot struct {
	State    State
	User     models.User
	Stats    models.ProfileStats
	HasStats bool
	Error    string
}

// Profile loads the user and their statistics concurrently.
type Profile struct {
	profile services.ProfileService
	logger  logging.Logger

	mu   sync.Mutex
	snap ProfileSnapshot

	updating atomic.Bool
	closed   atomic.Bool
}

func NewProfile(profile services.ProfileService, logger logging.Logger) *Profile {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Profile{profile: profile, logger: logger}
}

func (p *Profile) Load(ctx context.Context) error {
	if p.closed.Load() {
		return nil
	}
	p.mu.Lock()
	p.snap.State = Loading
	p.mu.Unlock()

	var (
		user             models.User
		stats            models.ProfileStats
		userErr, statErr error
		wg               conc.WaitGroup
	)
	wg.Go(func() { user, userErr = p.profile.Get(ctx) })
	wg.Go(func() { stats, statErr = p.profile.Stats(ctx) })
	wg.Wait()

	if p.closed.Load() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if userErr != nil {
		p.snap = ProfileSnapshot{State: Errored, Error: services.AsResult(userErr).Error}
		return userErr
	}
	if statErr != nil {
		p.logger.Warn(ctx, "profile stats unavailable", "error", statErr)
	}
	p.snap = ProfileSnapshot{State: Ready, User: user, Stats: stats, HasStats: statErr == nil}
	return nil
}

func (p *Profile) Snapshot() ProfileSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Update saves a profile edit and re-fetches.
func (p *Profile) Update(ctx context.Context, u models.ProfileUpdate) error {
	if !p.updating.CompareAndSwap(false, true) {
		return ErrActionInProgress
	}
	defer p.updating.Store(false)

	if _, err := p.profile.Update(ctx, u); err != nil {
		return err
	}
	_ = p.Load(ctx)
	return nil
}

func (p *Profile) Close() {
	p.closed.Store(true)
}
