package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bucketlist/internal/client/guard"
	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the sign-up form and creates the account. The new
// session is stored on success.
func (a *App) Register(ctx context.Context) error {
	var r models.Registration
	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&r.Username, "Username"},
		{&r.Email, "Email"},
		{&r.FirstName, "First name (optional)"},
		{&r.LastName, "Last name (optional)"},
		{&r.Location, "Location (optional)"},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.prompt, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	var err error
	if r.Password, err = getPassword("Password", a.out); err != nil {
		return err
	}
	if r.ConfirmPassword, err = getPassword("Confirm password", a.out); err != nil {
		return err
	}

	if err := a.auth.Register(ctx, r); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created. Welcome!")
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, username, password); err != nil {
		return err
	}
	a.redirect.Store(false)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the session. It never fails because of the server.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	// a deliberate logout is not a redirect
	a.redirect.Store(false)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// ChangePassword prompts for the current and the new password twice.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.enter(ctx, guard.Profile) {
		return nil
	}
	current, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	next, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm new password", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.ChangePassword(ctx, current, next, confirm); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

// WhoAmI prints the cached user and when the credential expires, if the
// token says so.
func (a *App) WhoAmI(ctx context.Context) error {
	s, err := a.auth.Session(ctx)
	if err != nil {
		return err
	}
	if s.IsZero() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (%s)\n", s.User.DisplayName(), s.User.Username)
	if exp, ok := session.TokenExpiry(s.AccessToken); ok {
		fmt.Fprintf(a.out, "Token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
