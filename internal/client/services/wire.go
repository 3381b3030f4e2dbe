package services

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/bucketlist/internal/client/models"
)

// Backend JSON shapes. Field names follow the REST backend (snake_case);
// a few camelCase aliases are accepted because older endpoints used them.

type userDTO struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	Avatar         string `json:"avatar"`
}

func (u userDTO) toModel() models.User {
	avatar := u.ProfilePicture
	if avatar == "" {
		avatar = u.Avatar
	}
	return models.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Location:  u.Location,
		Bio:       u.Bio,
		Avatar:    avatar,
	}
}

// authResponseDTO covers both the login answer, where user fields sit next
// to the tokens, and the signup answer, where they are nested under "user".
type authResponseDTO struct {
	userDTO
	Access  string   `json:"access"`
	Token   string   `json:"token"`
	Refresh string   `json:"refresh"`
	User    *userDTO `json:"user"`
}

func (a authResponseDTO) session() models.Session {
	token := a.Access
	if token == "" {
		token = a.Token
	}
	user := a.userDTO
	if a.User != nil {
		user = *a.User
	}
	return models.Session{AccessToken: token, RefreshToken: a.Refresh, User: user.toModel()}
}

type commentDTO struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Author     string `json:"author"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
	CreatedAtC string `json:"createdAt"`
}

func (c commentDTO) toModel() models.Comment {
	author := c.Author
	if author == "" {
		author = c.AuthorName
	}
	created := c.CreatedAt
	if created == "" {
		created = c.CreatedAtC
	}
	return models.Comment{ID: c.ID, AuthorName: author, Text: c.Text, CreatedAt: parseTime(created)}
}

type bucketDTO struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Image        *string      `json:"image"`
	IsCompleted  bool         `json:"is_completed"`
	UpvotesCount int          `json:"upvotes_count"`
	HasUpvoted   bool         `json:"has_upvoted"`
	IsOwner      bool         `json:"is_owner"`
	Owner        string       `json:"owner"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
	Comments     []commentDTO `json:"comments"`
}

func (b bucketDTO) toModel() models.BucketItem {
	item := models.BucketItem{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		OwnerName:   b.Owner,
		CreatedAt:   parseTime(b.CreatedAt),
		UpdatedAt:   parseTime(b.UpdatedAt),
		Completed:   b.IsCompleted,
		Likes:       b.UpvotesCount,
		LikedByMe:   b.HasUpvoted,
		IsOwner:     b.IsOwner,
		Comments:    make([]models.Comment, 0, len(b.Comments)),
	}
	if b.Image != nil {
		item.Image = *b.Image
	}
	for _, c := range b.Comments {
		item.Comments = append(item.Comments, c.toModel())
	}
	return item
}

// bucketList accepts a bare JSON array as well as the paginated
// {"count": n, "results": [...]} envelope.
type bucketList []bucketDTO

func (l *bucketList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, (*[]bucketDTO)(l))
	}
	var page struct {
		Results []bucketDTO `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	*l = page.Results
	return nil
}

type commentList []commentDTO

func (l *commentList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, (*[]commentDTO)(l))
	}
	var page struct {
		Results []commentDTO `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	*l = page.Results
	return nil
}

type toggleDTO struct {
	ID          int64  `json:"id"`
	IsCompleted bool   `json:"is_completed"`
	Status      string `json:"status"`
}

type upvoteDTO struct {
	ID           int64  `json:"id"`
	UpvotesCount int    `json:"upvotes_count"`
	Action       string `json:"action"`
}

// statsDTO accepts the camelCase shape and the profile model's column names.
type statsDTO struct {
	BucketItems     int `json:"bucketItems"`
	Completed       int `json:"completed"`
	ActiveGoals     int `json:"activeGoals"`
	TotalBuckets    int `json:"total_buckets"`
	CompleteBuckets int `json:"complete_buckets"`
	ActiveBuckets   int `json:"active_buckets"`
}

func (s statsDTO) toModel() models.ProfileStats {
	if s.BucketItems == 0 && s.Completed == 0 && s.ActiveGoals == 0 {
		return models.ProfileStats{BucketItems: s.TotalBuckets, Completed: s.CompleteBuckets, ActiveGoals: s.ActiveBuckets}
	}
	return models.ProfileStats{BucketItems: s.BucketItems, Completed: s.Completed, ActiveGoals: s.ActiveGoals}
}

// parseTime yields the zero time for empty or malformed timestamps.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
