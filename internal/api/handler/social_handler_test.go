package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"retohub/internal/api/middleware"
	"retohub/internal/app/service"
	"retohub/internal/common"
	"retohub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type stubSocialRepo struct {
	posts  []model.Post
	upsert model.ReactionOutcome
}

func (r *stubSocialRepo) InsertPost(ctx context.Context, p *model.Post) error {
	p.ID = len(r.posts) + 1
	r.posts = append(r.posts, *p)
	return nil
}
func (r *stubSocialRepo) ListPosts(ctx context.Context, limit, offset int) ([]model.Post, error) {
	return r.posts, nil
}
func (r *stubSocialRepo) FindPostByID(ctx context.Context, id int) (*model.Post, error) {
	for i := range r.posts {
		if r.posts[i].ID == id {
			return &r.posts[i], nil
		}
	}
	return nil, common.ErrNotFound
}
func (r *stubSocialRepo) GetCommentsByPostID(ctx context.Context, postID int) ([]model.Comment, error) {
	return []model.Comment{}, nil
}
func (r *stubSocialRepo) GetReactionCountsByPostID(ctx context.Context, postID int) ([]model.ReactionCount, error) {
	return []model.ReactionCount{}, nil
}
func (r *stubSocialRepo) InsertComment(ctx context.Context, postID int, c *model.Comment) error {
	if _, err := r.FindPostByID(ctx, postID); err != nil {
		return err
	}
	c.ID = 1
	return nil
}
func (r *stubSocialRepo) UpsertReaction(ctx context.Context, personID, postID, reactionTypeID int) (model.ReactionOutcome, error) {
	if _, err := r.FindPostByID(ctx, postID); err != nil {
		return 0, err
	}
	return r.upsert, nil
}
func (r *stubSocialRepo) DeleteReaction(ctx context.Context, personID, postID int) error {
	if _, err := r.FindPostByID(ctx, postID); err != nil {
		return err
	}
	return nil
}

// withPersonID injects the authenticated id the same way the real
// authenticator does.
func withPersonID(id int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.PersonIDCtxKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func socialRouter(repo *stubSocialRepo) http.Handler {
	h := NewSocialHandler(service.NewSocialService(repo))
	r := chi.NewRouter()
	r.Route("/posts", func(p chi.Router) {
		p.Use(withPersonID(3))
		h.RegisterRoutes(p)
	})
	return r
}

func TestCreatePost(t *testing.T) {
	repo := &stubSocialRepo{}
	router := socialRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"content": "hola mundo"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var post model.Post
	if err := json.NewDecoder(rec.Body).Decode(&post); err != nil {
		t.Fatalf("decoding post: %v", err)
	}
	if post.ID != 1 || post.PersonID != 3 {
		t.Errorf("post = %+v, want id 1 authored by person 3", post)
	}
}

func TestCreatePostEmptyContent(t *testing.T) {
	router := socialRouter(&stubSocialRepo{})

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"content": ""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSetReactionResponses(t *testing.T) {
	cases := []struct {
		name       string
		outcome    model.ReactionOutcome
		wantStatus int
		wantMsg    string
	}{
		{"created", model.ReactionCreated, http.StatusCreated, "Reaction recorded"},
		{"updated", model.ReactionUpdated, http.StatusOK, "Reaction updated"},
		{"unchanged", model.ReactionUnchanged, http.StatusOK, "Reaction unchanged"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubSocialRepo{posts: []model.Post{{ID: 10}}, upsert: tc.outcome}
			router := socialRouter(repo)

			req := httptest.NewRequest(http.MethodPost, "/posts/10/reactions", strings.NewReader(`{"reactionTypeId": 2}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var body common.MessageResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding message: %v", err)
			}
			if body.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", body.Message, tc.wantMsg)
			}
		})
	}
}

func TestSetReactionUnknownPost(t *testing.T) {
	router := socialRouter(&stubSocialRepo{})

	req := httptest.NewRequest(http.MethodPost, "/posts/404/reactions", strings.NewReader(`{"reactionTypeId": 2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRemoveReaction(t *testing.T) {
	router := socialRouter(&stubSocialRepo{posts: []model.Post{{ID: 10}}})

	req := httptest.NewRequest(http.MethodDelete, "/posts/10/reactions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCreateCommentUnknownPostReturns404(t *testing.T) {
	router := socialRouter(&stubSocialRepo{})

	req := httptest.NewRequest(http.MethodPost, "/posts/404/comments", strings.NewReader(`{"content": "hola"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
