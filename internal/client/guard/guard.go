// Package guard decides which screens need a signed-in session.
package guard

import (
	"context"

	"github.com/dmitrijs2005/bucketlist/internal/client/session"
)

// Route names a screen.
type Route string

const (
	Login    Route = "login"
	Register Route = "register"
	Discover Route = "discover"
	MyBucket Route = "mybucket"
	Profile  Route = "profile"
	Add      Route = "add"
	Edit     Route = "edit"
)

var private = map[Route]bool{
	MyBucket: true,
	Profile:  true,
	Add:      true,
	Edit:     true,
}

// IsPrivate reports whether r needs a credential. Unknown routes are public.
func IsPrivate(r Route) bool {
	return private[r]
}

// Decision is where a navigation ends up.
type Decision struct {
	Route      Route
	Redirected bool
}

// Guard evaluates the session store on every call; it keeps no state.
type Guard struct {
	store session.Store
}

func New(store session.Store) *Guard {
	return &Guard{store: store}
}

// IsAuthorized reports whether the store holds a credential. A store error
// counts as signed out.
func (g *Guard) IsAuthorized(ctx context.Context) bool {
	s, err := g.store.Get(ctx)
	return err == nil && !s.IsZero()
}

// Resolve sends private routes to Login when there is no session.
func (g *Guard) Resolve(ctx context.Context, target Route) Decision {
	if IsPrivate(target) && !g.IsAuthorized(ctx) {
		return Decision{Route: Login, Redirected: true}
	}
	return Decision{Route: target}
}
