package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/views"
)

// a Caser keeps state between calls, so each caller gets its own
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func statusLabel(item models.BucketItem) string {
	return title(item.Status())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Just now"
	}
	return t.Local().Format("Jan 2, 2006")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "Just now"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

func renderItems(w io.Writer, items []models.BucketItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nothing here yet.")
		return
	}
	for _, it := range items {
		liked := ""
		if it.LikedByMe {
			liked = ", liked by you"
		}
		fmt.Fprintf(w, "#%d [%s] %s - by %s, %s (%d likes%s, %d comments)\n",
			it.ID, statusLabel(it), it.Title, it.OwnerName, formatDate(it.CreatedAt),
			it.Likes, liked, len(it.Comments))
	}
}

func renderItem(w io.Writer, it models.BucketItem, comments []models.Comment) {
	fmt.Fprintf(w, "#%d %s [%s]\n", it.ID, it.Title, statusLabel(it))
	fmt.Fprintf(w, "by %s on %s\n", it.OwnerName, formatDate(it.CreatedAt))
	if it.Image != "" {
		fmt.Fprintf(w, "image: %s\n", it.Image)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, it.Description)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d likes\n", it.Likes)
	renderComments(w, comments)
}

func renderComments(w io.Writer, comments []models.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments yet.")
		return
	}
	fmt.Fprintf(w, "Comments (%d):\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(w, "  %s, %s: %s\n", c.AuthorName, formatTime(c.CreatedAt), c.Text)
	}
}

func renderTabs(w io.Writer, current models.Filter, counts views.Counts) {
	tabs := []struct {
		f models.Filter
		n int
	}{
		{models.FilterAll, counts.All},
		{models.FilterActive, counts.Active},
		{models.FilterCompleted, counts.Completed},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := fmt.Sprintf("%s (%d)", title(string(t.f)), t.n)
		if t.f == current {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

func renderProfile(w io.Writer, snap views.ProfileSnapshot) {
	u := snap.User
	fmt.Fprintf(w, "%s (@%s)\n", u.DisplayName(), u.Username)
	if u.Email != "" {
		fmt.Fprintf(w, "email: %s\n", u.Email)
	}
	if u.Location != "" {
		fmt.Fprintf(w, "location: %s\n", u.Location)
	}
	if u.Bio != "" {
		fmt.Fprintf(w, "bio: %s\n", u.Bio)
	}
	if !snap.HasStats {
		fmt.Fprintln(w, "Statistics are unavailable right now.")
		return
	}
	s := snap.Stats
	fmt.Fprintf(w, "Bucket items: %d  Completed: %d  Active goals: %d\n", s.BucketItems, s.Completed, s.ActiveGoals)
}
