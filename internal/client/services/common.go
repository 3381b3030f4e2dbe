package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
)

// requireSession returns the stored session or an auth Failure when there is
// no credential. No network call is made.
func requireSession(ctx context.Context, store session.Store) (models.Session, error) {
	s, err := store.Get(ctx)
	if err != nil {
		return models.Session{}, &Failure{Kind: KindServer, Message: "failed to read session", Err: err}
	}
	if s.IsZero() {
		return models.Session{}, translate(client.ErrAuthRequired)
	}
	return s, nil
}

// handleFailure translates err and, for a rejected credential, hands control
// to the unauthorized handler.
func handleFailure(ctx context.Context, h UnauthorizedHandler, err error) error {
	if errors.Is(err, client.ErrUnauthorized) && h != nil {
		h.HandleUnauthorized(context.WithoutCancel(ctx))
	}
	return translate(err)
}
