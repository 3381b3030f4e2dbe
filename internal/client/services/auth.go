// Package services contains the client's application services: the auth
// gateway, which is the only writer of the session store, and the resource
// services for bucket items and the profile.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
	"github.com/dmitrijs2005/bucketlist/internal/logging"
)

// UnauthorizedHandler is called by resource services whenever the backend
// rejects the stored credential.
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context)
}

// AuthService defines authentication operations.
//
// Contract:
//   - Login/Register: validate locally, call the backend, persist the session.
//   - Logout: always succeeds locally; server invalidation is best effort.
//   - ChangePassword: new and confirm must match before any network call.
//   - CurrentUser: re-fetch the signed-in user and refresh the cached copy.
//   - HandleUnauthorized: drop the session after a 401.
//
// Errors returned are *Failure.
type AuthService interface {
	UnauthorizedHandler
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, r models.Registration) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, current, newPassword, confirm string) error
	CurrentUser(ctx context.Context) (models.User, error)
	Session(ctx context.Context) (models.Session, error)
	OnSignedOut(fn func())
	Wait()
}

type authService struct {
	client client.Client
	store  session.Store
	logger logging.Logger

	mu          sync.Mutex
	onSignedOut func()
	bg          sync.WaitGroup

	// serializes HandleUnauthorized so concurrent 401s drop the session once
	dropMu sync.Mutex
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(c client.Client, store session.Store, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &authService{client: c, store: store, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *authService) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return validation("username and password are required")
	}

	var resp authResponseDTO
	err := a.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "accounts/login/",
		Body:   loginRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		return a.credentialsFailure(err)
	}
	return a.persist(ctx, resp.session())
}

type signupRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"re_password"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Location   string `json:"location,omitempty"`
}

func (a *authService) Register(ctx context.Context, r models.Registration) error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	switch {
	case r.Username == "":
		return validation("username is required")
	case r.Email == "":
		return validation("email is required")
	case r.Password == "":
		return validation("password is required")
	case r.Password != r.ConfirmPassword:
		return validation(MsgPasswordsMismatch)
	}

	var resp authResponseDTO
	err := a.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "accounts/signup/",
		Body: signupRequest{
			Username:   r.Username,
			Email:      r.Email,
			Password:   r.Password,
			RePassword: r.ConfirmPassword,
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Location:   r.Location,
		},
	}, &resp)
	if err != nil {
		return a.credentialsFailure(err)
	}
	return a.persist(ctx, resp.session())
}

// credentialsFailure keeps the backend's wording for a rejected login; a 401
// here means bad credentials, not an expired session.
func (a *authService) credentialsFailure(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return &Failure{Kind: KindAuth, Message: apiErr.Message, Err: err}
	}
	return translate(err)
}

func (a *authService) persist(ctx context.Context, s models.Session) error {
	if s.IsZero() {
		return &Failure{Kind: KindServer, Message: "no access token in server response"}
	}
	if err := a.store.Set(ctx, s); err != nil {
		a.logger.Error(ctx, "failed to persist session", "error", err)
		return &Failure{Kind: KindServer, Message: "failed to save session", Err: err}
	}
	a.logger.Info(ctx, "signed in", "username", s.User.Username)
	return nil
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

// Logout clears the local session, then tells the server in the background.
func (a *authService) Logout(ctx context.Context) error {
	s, err := a.store.Get(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to read session on logout", "error", err)
	}
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "failed to clear session", "error", err)
		return &Failure{Kind: KindServer, Message: "failed to clear session", Err: err}
	}
	a.signedOut()

	if s.IsZero() {
		return nil
	}

	bgCtx := context.WithoutCancel(ctx)
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		err := a.client.Do(bgCtx, client.Request{
			Method: http.MethodPost,
			Path:   "accounts/logout/",
			Token:  s.AccessToken,
			Body:   logoutRequest{Refresh: s.RefreshToken},
		}, nil)
		if err != nil {
			a.logger.Debug(bgCtx, "server-side logout failed", "error", err)
		}
	}()
	return nil
}

// Wait blocks until background logout calls have finished.
func (a *authService) Wait() {
	a.bg.Wait()
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *authService) ChangePassword(ctx context.Context, current, newPassword, confirm string) error {
	if newPassword != confirm {
		return validation(MsgPasswordsMismatch)
	}
	if newPassword == "" {
		return validation("new password is required")
	}

	s, err := a.requireSession(ctx)
	if err != nil {
		return err
	}

	err = a.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "accounts/password/change/",
		Token:  s.AccessToken,
		Body:   changePasswordRequest{CurrentPassword: current, NewPassword: newPassword},
	}, nil)
	if err != nil {
		return a.resourceFailure(ctx, err)
	}
	return nil
}

// CurrentUser checks the stored credential against the profile endpoint and
// refreshes the cached user.
func (a *authService) CurrentUser(ctx context.Context) (models.User, error) {
	s, err := a.requireSession(ctx)
	if err != nil {
		return models.User{}, err
	}

	var dto userDTO
	err = a.client.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   "accounts/profile/",
		Token:  s.AccessToken,
	}, &dto)
	if err != nil {
		return models.User{}, a.resourceFailure(ctx, err)
	}

	s.User = dto.toModel()
	if err := a.store.Set(ctx, s); err != nil {
		a.logger.Warn(ctx, "failed to refresh cached user", "error", err)
	}
	return s.User, nil
}

func (a *authService) Session(ctx context.Context) (models.Session, error) {
	s, err := a.store.Get(ctx)
	if err != nil {
		return models.Session{}, &Failure{Kind: KindServer, Message: "failed to read session", Err: err}
	}
	return s, nil
}

// HandleUnauthorized drops the session after a 401. When the session is
// already gone, for example because a concurrent request saw the same 401,
// it does nothing and the signed-out callback does not fire again.
func (a *authService) HandleUnauthorized(ctx context.Context) {
	a.dropMu.Lock()
	s, err := a.store.Get(ctx)
	if err == nil && s.IsZero() {
		a.dropMu.Unlock()
		return
	}
	a.logger.Info(ctx, "credential rejected by server, clearing session")
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "failed to clear session", "error", err)
	}
	a.dropMu.Unlock()

	a.signedOut()
}

// OnSignedOut registers fn to run after the session is dropped, either by
// Logout or by HandleUnauthorized.
func (a *authService) OnSignedOut(fn func()) {
	a.mu.Lock()
	a.onSignedOut = fn
	a.mu.Unlock()
}

func (a *authService) signedOut() {
	a.mu.Lock()
	fn := a.onSignedOut
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (a *authService) requireSession(ctx context.Context) (models.Session, error) {
	return requireSession(ctx, a.store)
}

func (a *authService) resourceFailure(ctx context.Context, err error) error {
	return handleFailure(ctx, a, err)
}
