package models

import "time"

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// BucketItem is one entry of somebody's bucket list as the views show it.
// The server owns it; a local copy is provisional until re-fetched.
type BucketItem struct {
	ID          int64
	Title       string
	Description string
	Image       string
	OwnerName   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Completed   bool
	Likes       int
	LikedByMe   bool
	IsOwner     bool
	Comments    []Comment
}

func (b BucketItem) Status() string {
	if b.Completed {
		return StatusCompleted
	}
	return StatusActive
}

// Comment is append-only from the client's point of view.
type Comment struct {
	ID         int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// BucketDraft is the create form. ImagePath, when set, points at a local
// file sent as multipart form data.
type BucketDraft struct {
	Title       string
	Description string
	ImagePath   string
}

// BucketPatch is a partial edit; nil fields are left untouched.
type BucketPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"is_completed,omitempty"`
}

func (p BucketPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Filter selects a subset of items by completion status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts "all", "active" and "completed"; anything else is all.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterActive, FilterCompleted:
		return Filter(s)
	default:
		return FilterAll
	}
}

func (f Filter) Match(item BucketItem) bool {
	switch f {
	case FilterActive:
		return !item.Completed
	case FilterCompleted:
		return item.Completed
	default:
		return true
	}
}

// OwnedBy returns the items whose owner is username, in their original order.
func OwnedBy(items []BucketItem, username string) []BucketItem {
	out := make([]BucketItem, 0, len(items))
	if username == "" {
		return out
	}
	for _, it := range items {
		if it.OwnerName == username {
			out = append(out, it)
		}
	}
	return out
}

// Apply returns the items matching f.
func (f Filter) Apply(items []BucketItem) []BucketItem {
	out := make([]BucketItem, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
