package services

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
	"github.com/dmitrijs2005/bucketlist/internal/client/models"
	"github.com/dmitrijs2005/bucketlist/internal/client/session"
	"github.com/dmitrijs2005/bucketlist/internal/logging"
)

// BucketService reads and mutates bucket items on the backend.
//
// List and Get work without a credential (public feed). Every other operation needs
// one and fails locally with "authentication required" when the session is
// empty. Nothing is retried.
type BucketService interface {
	List(ctx context.Context) ([]models.BucketItem, error)
	Get(ctx context.Context, id int64) (models.BucketItem, error)
	Create(ctx context.Context, d models.BucketDraft) (models.BucketItem, error)
	Patch(ctx context.Context, id int64, p models.BucketPatch) (models.BucketItem, error)
	Delete(ctx context.Context, id int64) error
	ToggleComplete(ctx context.Context, id int64) (bool, error)
	Like(ctx context.Context, id int64) (LikeResult, error)
	Comments(ctx context.Context, id int64) ([]models.Comment, error)
	AddComment(ctx context.Context, id int64, text string) (models.Comment, error)
}

// LikeResult is the server's view of an item's likes after an upvote toggle.
type LikeResult struct {
	Likes int
	Liked bool
}

type bucketService struct {
	client client.Client
	store  session.Store
	auth   UnauthorizedHandler
	fs     afero.Fs
	logger logging.Logger
}

// NewBucketService builds a BucketService. Image paths given to Create are
// resolved against fs.
func NewBucketService(c client.Client, store session.Store, auth UnauthorizedHandler, fs afero.Fs, logger logging.Logger) BucketService {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &bucketService{client: c, store: store, auth: auth, fs: fs, logger: logger}
}

func bucketPath(id int64, suffix ...string) string {
	parts := append([]string{"buckets", strconv.FormatInt(id, 10)}, suffix...)
	return strings.Join(parts, "/") + "/"
}

func (b *bucketService) List(ctx context.Context) ([]models.BucketItem, error) {
	var dtos bucketList
	if err := b.public(ctx, "buckets/", &dtos); err != nil {
		return nil, err
	}
	items := make([]models.BucketItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, d.toModel())
	}
	return items, nil
}

// Get reads one item. Like List it works without a credential.
func (b *bucketService) Get(ctx context.Context, id int64) (models.BucketItem, error) {
	var dto bucketDTO
	if err := b.public(ctx, bucketPath(id), &dto); err != nil {
		return models.BucketItem{}, err
	}
	return dto.toModel(), nil
}

func (b *bucketService) Create(ctx context.Context, d models.BucketDraft) (models.BucketItem, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" {
		return models.BucketItem{}, validation("title is required")
	}
	if d.Description == "" {
		return models.BucketItem{}, validation("description is required")
	}

	s, err := requireSession(ctx, b.store)
	if err != nil {
		return models.BucketItem{}, err
	}

	req := client.Request{Method: http.MethodPost, Path: "buckets/", Token: s.AccessToken}
	fields := map[string]string{"title": d.Title, "description": d.Description}
	if d.ImagePath != "" {
		file, err := client.NewFormFile(b.fs, "image", d.ImagePath)
		if err != nil {
			return models.BucketItem{}, &Failure{Kind: KindValidation, Message: "cannot read image " + d.ImagePath, Err: err}
		}
		req.Form = &client.Form{Fields: fields, Files: []client.FormFile{file}}
	} else {
		req.Body = fields
	}

	var dto bucketDTO
	if err := b.client.Do(ctx, req, &dto); err != nil {
		return models.BucketItem{}, handleFailure(ctx, b.auth, err)
	}
	b.logger.Info(ctx, "bucket item created", "id", dto.ID)
	return dto.toModel(), nil
}

func (b *bucketService) Patch(ctx context.Context, id int64, p models.BucketPatch) (models.BucketItem, error) {
	if p.IsEmpty() {
		return models.BucketItem{}, validation("nothing to update")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return models.BucketItem{}, validation("title is required")
	}

	var dto bucketDTO
	if err := b.call(ctx, http.MethodPatch, bucketPath(id), p, &dto); err != nil {
		return models.BucketItem{}, err
	}
	return dto.toModel(), nil
}

func (b *bucketService) Delete(ctx context.Context, id int64) error {
	return b.call(ctx, http.MethodDelete, bucketPath(id), nil, nil)
}

func (b *bucketService) ToggleComplete(ctx context.Context, id int64) (bool, error) {
	var dto toggleDTO
	if err := b.call(ctx, http.MethodPost, bucketPath(id, "toggle-complete"), nil, &dto); err != nil {
		return false, err
	}
	return dto.IsCompleted, nil
}

func (b *bucketService) Like(ctx context.Context, id int64) (LikeResult, error) {
	var dto upvoteDTO
	if err := b.call(ctx, http.MethodPost, bucketPath(id, "upvote"), nil, &dto); err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Likes: dto.UpvotesCount, Liked: dto.Action == "added"}, nil
}

func (b *bucketService) Comments(ctx context.Context, id int64) ([]models.Comment, error) {
	var dtos commentList
	if err := b.call(ctx, http.MethodGet, bucketPath(id, "comments"), nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0, len(dtos))
	for _, c := range dtos {
		out = append(out, c.toModel())
	}
	return out, nil
}

type commentRequest struct {
	Text string `json:"text"`
}

func (b *bucketService) AddComment(ctx context.Context, id int64, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, validation("comment cannot be empty")
	}

	var dto commentDTO
	if err := b.call(ctx, http.MethodPost, bucketPath(id, "comments"), commentRequest{Text: text}, &dto); err != nil {
		return models.Comment{}, err
	}
	return dto.toModel(), nil
}

// public performs a GET that sends the credential only when there is one.
// A rejected credential still goes through the unauthorized handler.
func (b *bucketService) public(ctx context.Context, path string, out any) error {
	s, err := b.store.Get(ctx)
	if err != nil {
		return &Failure{Kind: KindServer, Message: "failed to read session", Err: err}
	}
	err = b.client.Do(ctx, client.Request{Method: http.MethodGet, Path: path, Token: s.AccessToken}, out)
	if err != nil {
		return handleFailure(ctx, b.auth, err)
	}
	return nil
}

// call performs an authenticated JSON request.
func (b *bucketService) call(ctx context.Context, method, path string, body, out any) error {
	s, err := requireSession(ctx, b.store)
	if err != nil {
		return err
	}
	err = b.client.Do(ctx, client.Request{Method: method, Path: path, Token: s.AccessToken, Body: body}, out)
	if err != nil {
		return handleFailure(ctx, b.auth, err)
	}
	return nil
}
