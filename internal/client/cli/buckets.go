package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bucketlist/internal/client/guard"
	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/views"
)

// Discover shows the community feed. It is public.
func (a *App) Discover(ctx context.Context) error {
	if err := a.discover.Load(ctx); err != nil {
		return err
	}
	renderItems(a.out, a.discover.Snapshot().Items)
	return nil
}

// Mine shows the user's own items, optionally switching the filter tab.
func (a *App) Mine(ctx context.Context, filter string) error {
	if !a.enter(ctx, guard.MyBucket) {
		return nil
	}
	if filter != "" {
		a.mine.SetFilter(models.ParseFilter(filter))
	}
	if err := a.mine.Load(ctx); err != nil {
		return err
	}
	a.showMine()
	return nil
}

func (a *App) showMine() {
	snap := a.mine.Snapshot()
	if snap.State == views.Errored {
		fmt.Fprintln(a.out, "Error:", snap.Error)
		return
	}
	renderTabs(a.out, a.mine.Filter(), a.mine.Counts())
	renderItems(a.out, snap.Items)
}

// Show prints one item with its comment thread.
func (a *App) Show(ctx context.Context, id int64) error {
	item, err := a.buckets.Get(ctx, id)
	if err != nil {
		return err
	}
	comments, err := a.discover.Comments(ctx, id)
	if err != nil {
		// the embedded thread is good enough when the list call fails
		comments = item.Comments
	}
	renderItem(a.out, item, comments)
	return nil
}

// Add prompts for a new item. The image path is optional.
func (a *App) Add(ctx context.Context) error {
	if !a.enter(ctx, guard.Add) {
		return nil
	}
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	image, err := getSimpleText(a.reader, "Image file (optional)", a.out)
	if err != nil {
		return err
	}

	err = a.mine.Create(ctx, models.BucketDraft{Title: title, Description: description, ImagePath: image})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Added to your bucket list")
	a.showMine()
	return nil
}

// Edit prompts for new values; empty answers keep the current ones.
func (a *App) Edit(ctx context.Context, id int64) error {
	if !a.enter(ctx, guard.Edit) {
		return nil
	}
	current, err := a.buckets.Get(ctx, id)
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", current.Title), a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}

	p := models.BucketPatch{Title: optional(title), Description: optional(description)}
	if p.IsEmpty() {
		fmt.Fprintln(a.out, "Nothing changed")
		return nil
	}
	if err := a.mine.Edit(ctx, id, p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved")
	a.showMine()
	return nil
}

func (a *App) Delete(ctx context.Context, id int64) error {
	if !a.enter(ctx, guard.MyBucket) {
		return nil
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete #%d? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		return nil
	}
	if err := a.mine.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	a.showMine()
	return nil
}

// Done toggles the completed flag of one of the user's items.
func (a *App) Done(ctx context.Context, id int64) error {
	if !a.enter(ctx, guard.MyBucket) {
		return nil
	}
	if err := a.mine.ToggleComplete(ctx, id); err != nil {
		return err
	}
	if it, ok := a.mine.Item(id); ok {
		fmt.Fprintf(a.out, "#%d is now %s\n", id, statusLabel(it))
	}
	return nil
}

func (a *App) Like(ctx context.Context, id int64) error {
	if err := a.discover.Like(ctx, id); err != nil {
		return err
	}
	if it, ok := a.discover.Item(id); ok {
		fmt.Fprintf(a.out, "#%d has %d likes\n", id, it.Likes)
	}
	return nil
}

func (a *App) Comment(ctx context.Context, id int64) error {
	text, err := getSimpleText(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	if err := a.discover.Comment(ctx, id, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Comment posted")
	return nil
}
