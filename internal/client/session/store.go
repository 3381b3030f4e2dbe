// Package session keeps the client's session: the access credential and a
// cached summary of the signed-in user. It survives restarts when backed by
// SQLite.
//
// Only the auth service writes to a Store; everything else reads.
package session

import (
	"context"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
)

// Metadata keys under which the session is persisted.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Store persists a single session.
//
// Get returns the zero Session when nothing is stored or when the stored
// credential is missing; in the latter case the cached user is withheld.
type Store interface {
	Set(ctx context.Context, s models.Session) error
	Get(ctx context.Context) (models.Session, error)
	Clear(ctx context.Context) error
}
