package posts_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/internal/authz"
	"github.com/inkwell-cms/inkwell/internal/posts"
	"github.com/inkwell-cms/inkwell/internal/shared"
	_ "github.com/inkwell-cms/inkwell/testing"
)

type stubRepo struct {
	posts map[string]*posts.Post
}

func newStubRepo(seed ...*posts.Post) *stubRepo {
	s := &stubRepo{posts: make(map[string]*posts.Post)}
	for _, p := range seed {
		s.posts[p.ID] = p
	}
	return s
}

func (s *stubRepo) CreatePost(ctx context.Context, post *posts.Post) error {
	for _, existing := range s.posts {
		if existing.Title == post.Title {
			return shared.ErrDuplicate
		}
	}
	s.posts[post.ID] = post
	return nil
}

func (s *stubRepo) ListPosts(ctx context.Context) ([]posts.Post, error) {
	out := make([]posts.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubRepo) GetPost(ctx context.Context, id string) (*posts.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return post, nil
}

func (s *stubRepo) PostOwner(ctx context.Context, id string) (string, error) {
	post, ok := s.posts[id]
	if !ok {
		return "", shared.ErrNotFound
	}
	return post.OwnerID, nil
}

func (s *stubRepo) UpdatePost(ctx context.Context, id string, input posts.UpdateInput) (*posts.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Description != nil {
		post.Description = *input.Description
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.ImageURL != nil {
		post.ImageURL = *input.ImageURL
	}
	return post, nil
}

func (s *stubRepo) DeletePost(ctx context.Context, id string) error {
	if _, ok := s.posts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func newPostsRouter(t *testing.T, seed ...*posts.Post) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := posts.NewService(newStubRepo(seed...), nil, logger)
	guards := authz.Middleware{Resources: service, Logger: logger}
	handler := posts.NewHandler(logger, service, guards)

	r := chi.NewRouter()
	r.Route("/posts", handler.MountRoutes)
	return r
}

func doJSON(router chi.Router, method, target, principalID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if principalID != "" {
		req = req.WithContext(shared.ContextWithPrincipalID(req.Context(), principalID))
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func seededPost(ownerID string) *posts.Post {
	return &posts.Post{
		ID:      uuid.NewString(),
		Title:   "First Post",
		Content: "Body",
		OwnerID: ownerID,
	}
}

func TestListPostsIsPublic(t *testing.T) {
	post := seededPost(uuid.NewString())
	router := newPostsRouter(t, post)

	res := doJSON(router, http.MethodGet, "/posts/", "", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var listing []map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listing) != 1 {
		t.Fatalf("expected 1 post, got %d", len(listing))
	}
	if listing[0]["ownerId"] != post.OwnerID {
		t.Fatalf("expected ownerId %q, got %v", post.OwnerID, listing[0]["ownerId"])
	}
}

func TestGetPostIsPublic(t *testing.T) {
	post := seededPost(uuid.NewString())
	router := newPostsRouter(t, post)

	res := doJSON(router, http.MethodGet, "/posts/"+post.ID, "", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	res = doJSON(router, http.MethodGet, "/posts/"+uuid.NewString(), "", "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", res.Code)
	}
}

func TestCreatePostRequiresAuthentication(t *testing.T) {
	router := newPostsRouter(t)
	body := `{"title":"Hello","description":"A post","content":"Body"}`

	if res := doJSON(router, http.MethodPost, "/posts/", "", body); res.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", res.Code)
	}

	res := doJSON(router, http.MethodPost, "/posts/", uuid.NewString(), body)
	if res.Code != http.StatusCreated {
		t.Fatalf("authenticated: expected 201, got %d: %s", res.Code, res.Body.String())
	}
}

func TestCreatePostSetsCallerAsOwner(t *testing.T) {
	router := newPostsRouter(t)
	callerID := uuid.NewString()

	res := doJSON(router, http.MethodPost, "/posts/", callerID,
		`{"title":"Hello","description":"A post","content":"Body"}`)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["ownerId"] != callerID {
		t.Fatalf("expected ownerId %q, got %v", callerID, payload["ownerId"])
	}
}

func TestCreatePostValidation(t *testing.T) {
	router := newPostsRouter(t)
	callerID := uuid.NewString()

	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"description":"A post","content":"Body"}`},
		{"bad image url", `{"title":"Hello","description":"A post","content":"Body","imgUrl":"not a url"}`},
		{"malformed json", `{"title":`},
	}
	for _, tc := range cases {
		res := doJSON(router, http.MethodPost, "/posts/", callerID, tc.body)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, res.Code)
		}
	}
}

func TestUpdatePostOwnershipEnforced(t *testing.T) {
	ownerID := uuid.NewString()
	post := seededPost(ownerID)
	router := newPostsRouter(t, post)
	body := `{"title":"Renamed"}`

	if res := doJSON(router, http.MethodPut, "/posts/"+post.ID, "", body); res.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", res.Code)
	}
	denied := doJSON(router, http.MethodPut, "/posts/"+post.ID, uuid.NewString(), body)
	if denied.Code != http.StatusForbidden {
		t.Fatalf("non-owner: expected 403, got %d", denied.Code)
	}
	var deniedBody map[string]any
	if err := json.Unmarshal(denied.Body.Bytes(), &deniedBody); err != nil {
		t.Fatalf("decode denial: %v", err)
	}
	for _, key := range []string{"title", "content", "ownerId"} {
		if _, leaked := deniedBody[key]; leaked {
			t.Fatalf("denial response leaks %q", key)
		}
	}

	res := doJSON(router, http.MethodPut, "/posts/"+post.ID, ownerID, body)
	if res.Code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["title"] != "Renamed" {
		t.Fatalf("expected title Renamed, got %v", payload["title"])
	}
}

func TestUpdateMissingPostIs404(t *testing.T) {
	router := newPostsRouter(t)

	res := doJSON(router, http.MethodPut, "/posts/"+uuid.NewString(), uuid.NewString(), `{"title":"Renamed"}`)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestDeletePostOwnershipEnforced(t *testing.T) {
	ownerID := uuid.NewString()
	post := seededPost(ownerID)
	router := newPostsRouter(t, post)

	if res := doJSON(router, http.MethodDelete, "/posts/"+post.ID, uuid.NewString(), ""); res.Code != http.StatusForbidden {
		t.Fatalf("non-owner: expected 403, got %d", res.Code)
	}

	if res := doJSON(router, http.MethodDelete, "/posts/"+post.ID, ownerID, ""); res.Code != http.StatusNoContent {
		t.Fatalf("owner: expected 204, got %d", res.Code)
	}

	if res := doJSON(router, http.MethodGet, "/posts/"+post.ID, "", ""); res.Code != http.StatusNotFound {
		t.Fatalf("after delete: expected 404, got %d", res.Code)
	}
}

// A caller whose id happens to match the post's id must still be rejected
// when someone else owns the post.
func TestUpdateDeniedWhenCallerIDMatchesPostID(t *testing.T) {
	post := seededPost(uuid.NewString())
	router := newPostsRouter(t, post)

	res := doJSON(router, http.MethodPut, "/posts/"+post.ID, post.ID, `{"title":"Hijacked"}`)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
}
