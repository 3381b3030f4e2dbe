package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
)

// ProfileService reads and edits the signed-in user's profile.
type ProfileService interface {
	Get(ctx context.Context) (models.User, error)
	Update(ctx context.Context, u models.ProfileUpdate) (models.User, error)
	Stats(ctx context.Context) (models.ProfileStats, error)
}

type profileService struct {
	client client.Client
	store  session.Store
	auth   AuthService
}

// NewProfileService builds a ProfileService. The auth service receives 401s
// and owns the cached session user.
func NewProfileService(c client.Client, store session.Store, auth AuthService) ProfileService {
	return &profileService{client: c, store: store, auth: auth}
}

func (p *profileService) Get(ctx context.Context) (models.User, error) {
	var dto userDTO
	if err := p.call(ctx, http.MethodGet, "accounts/profile/", nil, &dto); err != nil {
		return models.User{}, err
	}
	return dto.toModel(), nil
}

// Update sends a partial profile edit, then re-reads the user through the
// auth service so the cached session user follows a rename.
func (p *profileService) Update(ctx context.Context, u models.ProfileUpdate) (models.User, error) {
	if u.IsEmpty() {
		return models.User{}, validation("nothing to update")
	}
	if u.Username != nil && *u.Username == "" {
		return models.User{}, validation("username is required")
	}

	var dto userDTO
	if err := p.call(ctx, http.MethodPatch, "accounts/profile/", u, &dto); err != nil {
		return models.User{}, err
	}
	if fresh, err := p.auth.CurrentUser(ctx); err == nil {
		return fresh, nil
	}
	return dto.toModel(), nil
}

func (p *profileService) Stats(ctx context.Context) (models.ProfileStats, error) {
	var dto statsDTO
	if err := p.call(ctx, http.MethodGet, "accounts/profile/stats/", nil, &dto); err != nil {
		return models.ProfileStats{}, err
	}
	return dto.toModel(), nil
}

func (p *profileService) call(ctx context.Context, method, path string, body, out any) error {
	s, err := requireSession(ctx, p.store)
	if err != nil {
		return err
	}
	err = p.client.Do(ctx, client.Request{Method: method, Path: path, Token: s.AccessToken, Body: body}, out)
	if err != nil {
		return handleFailure(ctx, p.auth, err)
	}
	return nil
}
