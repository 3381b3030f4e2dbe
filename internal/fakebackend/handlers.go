package fakebackend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type ctxKey struct{}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (b *Backend) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		fail := false
		for suffix, n := range b.failures {
			if n > 0 && strings.HasSuffix(r.URL.Path, suffix) {
				b.failures[suffix] = n - 1
				fail = true
				break
			}
		}
		b.mu.Unlock()
		if fail {
			writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentUser resolves the bearer token, if any. ok is false when a token
// was sent but is not valid.
func (b *Backend) currentUser(r *http.Request) (u *user, ok bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, true
	}
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, found = b.tokens[raw]
	if !found {
		return nil, false
	}
	if err := validateAccessToken(raw, b.secret, b.now()); err != nil {
		return nil, false
	}
	return u, true
}

func (b *Backend) authenticated(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := b.currentUser(r)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}
		if u == nil {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		h(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	}
}

func (b *Backend) optionalAuth(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := b.currentUser(r)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}
		if u != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
		}
		h(w, r)
	}
}

func userFrom(r *http.Request) *user {
	u, _ := r.Context().Value(ctxKey{}).(*user)
	return u
}

func decode(r *http.Request, v any) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (b *Backend) issue(u *user) (access, refresh string, err error) {
	now := b.now()
	access, err = generateToken(u.Username, "access", b.secret, b.validity, now)
	if err != nil {
		return "", "", err
	}
	refresh, err = generateToken(u.Username, "refresh", b.secret, 24*time.Hour, now)
	if err != nil {
		return "", "", err
	}
	b.tokens[access] = u
	return access, refresh, nil
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, found := b.users[req.Username]
	if !found || u.Password != req.Password {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}
	access, refresh, err := b.issue(u)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access":   access,
		"refresh":  refresh,
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
	})
}

func (b *Backend) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username   string `json:"username"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		RePassword string `json:"re_password"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		Location   string `json:"location"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request.")
		return
	}

	fieldErrs := map[string][]string{}
	if req.Password != req.RePassword {
		fieldErrs["password"] = []string{"Passwords must match."}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.users[req.Username]; taken {
		fieldErrs["username"] = []string{"A user with that username already exists."}
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}

	u := &user{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Location:  req.Location,
	}
	b.addUserLocked(u)
	access, refresh, err := b.issue(u)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    userJSON(u),
		"access":  access,
		"refresh": refresh,
	})
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	b.mu.Lock()
	delete(b.tokens, raw)
	b.mu.Unlock()
	writeJSON(w, http.StatusResetContent, nil)
}

func (b *Backend) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request.")
		return
	}
	u := userFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	if u.Password != req.CurrentPassword {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"current_password": {"Invalid password."}})
		return
	}
	u.Password = req.NewPassword
	writeJSON(w, http.StatusNoContent, nil)
}

func userJSON(u *user) map[string]any {
	return map[string]any{
		"id":              u.ID,
		"username":        u.Username,
		"email":           u.Email,
		"first_name":      u.FirstName,
		"last_name":       u.LastName,
		"location":        u.Location,
		"bio":             u.Bio,
		"profile_picture": nil,
	}
}

func (b *Backend) handleProfile(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, userJSON(u))
}

func (b *Backend) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  *string `json:"username"`
		Email     *string `json:"email"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Location  *string `json:"location"`
		Bio       *string `json:"bio"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request.")
		return
	}
	u := userFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	if req.Username != nil && *req.Username != u.Username {
		if _, taken := b.users[*req.Username]; taken {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
			return
		}
		delete(b.users, u.Username)
		for _, it := range b.buckets {
			if it.Owner == u.Username {
				it.Owner = *req.Username
			}
		}
		u.Username = *req.Username
		b.users[u.Username] = u
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Email, req.Email)
	set(&u.FirstName, req.FirstName)
	set(&u.LastName, req.LastName)
	set(&u.Location, req.Location)
	set(&u.Bio, req.Bio)
	writeJSON(w, http.StatusOK, userJSON(u))
}

func (b *Backend) handleStats(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	total, done := 0, 0
	for _, it := range b.buckets {
		if it.Owner != u.Username {
			continue
		}
		total++
		if it.Completed {
			done++
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"bucketItems": total,
		"completed":   done,
		"activeGoals": total - done,
	})
}

func (b *Backend) bucketJSON(it *bucket, viewer *user) map[string]any {
	status := "active"
	if it.Completed {
		status = "completed"
	}
	var image any
	if it.Image != "" {
		image = it.Image
	}
	comments := make([]map[string]any, 0, len(it.Comments))
	for _, c := range it.Comments {
		comments = append(comments, commentJSON(c))
	}
	out := map[string]any{
		"id":            it.ID,
		"title":         it.Title,
		"description":   it.Description,
		"image":         image,
		"is_completed":  it.Completed,
		"status":        status,
		"upvotes_count": len(it.Upvoters),
		"owner":         it.Owner,
		"is_owner":      viewer != nil && viewer.Username == it.Owner,
		"has_upvoted":   viewer != nil && it.Upvoters[viewer.Username],
		"comments":      comments,
		"created_at":    it.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":    it.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	return out
}

func commentJSON(c comment) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"text":       c.Text,
		"author":     c.Author,
		"created_at": c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (b *Backend) handleList(w http.ResponseWriter, r *http.Request) {
	viewer := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.sortedBuckets()
	results := make([]map[string]any, 0, len(items))
	for _, it := range items {
		results = append(results, b.bucketJSON(it, viewer))
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(results), "results": results})
}

func (b *Backend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var title, description, image string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			writeDetail(w, http.StatusBadRequest, "Malformed form.")
			return
		}
		title = r.FormValue("title")
		description = r.FormValue("description")
		if _, hdr, err := r.FormFile("image"); err == nil {
			image = "/media/bucket_images/" + hdr.Filename
		}
	} else {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := decode(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, "Malformed request.")
			return
		}
		title, description = req.Title, req.Description
	}

	fieldErrs := map[string][]string{}
	if strings.TrimSpace(title) == "" {
		fieldErrs["title"] = []string{"This field may not be blank."}
	}
	if strings.TrimSpace(description) == "" {
		fieldErrs["description"] = []string{"This field may not be blank."}
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, fieldErrs)
		return
	}

	u := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	it := b.addBucketLocked(u.Username, title, description, false)
	it.Image = image
	writeJSON(w, http.StatusCreated, b.bucketJSON(it, u))
}

// lookup finds the item named by the route. Callers hold b.mu.
func (b *Backend) lookup(w http.ResponseWriter, r *http.Request) (*bucket, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return nil, false
	}
	it, found := b.buckets[id]
	if !found {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return nil, false
	}
	return it, true
}

func (b *Backend) ownedLookup(w http.ResponseWriter, r *http.Request) (*bucket, bool) {
	it, ok := b.lookup(w, r)
	if !ok {
		return nil, false
	}
	if it.Owner != userFrom(r).Username {
		writeDetail(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return nil, false
	}
	return it, true
}

func (b *Backend) handleDetail(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if it, ok := b.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, b.bucketJSON(it, userFrom(r)))
	}
}

func (b *Backend) handlePatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		IsCompleted *bool   `json:"is_completed"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	it, ok := b.ownedLookup(w, r)
	if !ok {
		return
	}
	if req.Title != nil {
		it.Title = *req.Title
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.IsCompleted != nil {
		it.Completed = *req.IsCompleted
	}
	it.UpdatedAt = b.now()
	writeJSON(w, http.StatusOK, b.bucketJSON(it, userFrom(r)))
}

func (b *Backend) handleDelete(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	it, ok := b.ownedLookup(w, r)
	if !ok {
		return
	}
	delete(b.buckets, it.ID)
	writeJSON(w, http.StatusNoContent, nil)
}

func (b *Backend) handleToggle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	it, ok := b.ownedLookup(w, r)
	if !ok {
		return
	}
	it.Completed = !it.Completed
	it.UpdatedAt = b.now()
	status := "active"
	if it.Completed {
		status = "completed"
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": it.ID, "is_completed": it.Completed, "status": status})
}

func (b *Backend) handleUpvote(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	it, ok := b.lookup(w, r)
	if !ok {
		return
	}
	action := "added"
	if it.Upvoters[u.Username] {
		delete(it.Upvoters, u.Username)
		action = "removed"
	} else {
		it.Upvoters[u.Username] = true
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": it.ID, "upvotes_count": len(it.Upvoters), "action": action})
}

func (b *Backend) handleComments(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	it, ok := b.lookup(w, r)
	if !ok {
		return
	}
	out := make([]map[string]any, 0, len(it.Comments))
	for _, c := range it.Comments {
		out = append(out, commentJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request.")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"text": {"This field may not be blank."}})
		return
	}

	u := userFrom(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	it, ok := b.lookup(w, r)
	if !ok {
		return
	}
	b.nextID++
	c := comment{ID: b.nextID, Author: u.Username, Text: req.Text, CreatedAt: b.now()}
	it.Comments = append(it.Comments, c)
	writeJSON(w, http.StatusCreated, commentJSON(c))
}
