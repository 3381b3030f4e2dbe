package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bucketlist/internal/client/guard"
	"github.com/dmitrijs2005/bucketlist/internal/client/models"
)

func (a *App) Profile(ctx context.Context) error {
	if !a.enter(ctx, guard.Profile) {
		return nil
	}
	if err := a.profile.Load(ctx); err != nil {
		return err
	}
	renderProfile(a.out, a.profile.Snapshot())
	return nil
}

// EditProfile prompts for each field; empty answers keep the current value.
func (a *App) EditProfile(ctx context.Context) error {
	if !a.enter(ctx, guard.Profile) {
		return nil
	}

	var u models.ProfileUpdate
	prompts := []struct {
		dst    **string
		prompt string
	}{
		{&u.Username, "Username"},
		{&u.Email, "Email"},
		{&u.FirstName, "First name"},
		{&u.LastName, "Last name"},
		{&u.Location, "Location"},
		{&u.Bio, "Bio"},
	}
	fmt.Fprintln(a.out, "Leave a field empty to keep it.")
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.prompt, a.out)
		if err != nil {
			return err
		}
		*p.dst = optional(v)
	}

	if u.IsEmpty() {
		fmt.Fprintln(a.out, "Nothing changed")
		return nil
	}
	if err := a.profile.Update(ctx, u); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated")
	renderProfile(a.out, a.profile.Snapshot())
	return nil
}
