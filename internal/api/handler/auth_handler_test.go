package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"retohub/internal/app/service"
	"retohub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// creatingPersonRepo assigns ids on create, enough for the register paths.
type creatingPersonRepo struct {
	stubPersonRepo
}

func (r *creatingPersonRepo) Create(ctx context.Context, p *model.Person) error {
	p.ID = len(r.persons) + 1
	r.persons = append(r.persons, *p)
	return nil
}

func authRouter(repo *creatingPersonRepo) http.Handler {
	h := NewAuthHandler(service.NewAuthService(repo))
	r := chi.NewRouter()
	r.Route("/auth", h.RegisterRoutes)
	return r
}

func TestAuthRoutesMountUnderAuthPrefix(t *testing.T) {
	router := authRouter(&creatingPersonRepo{})

	register := `{"name": "Ana", "surname": "Luz", "email": "ana@mail.com", "password": "pw123", "username": "analuz"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(register))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("POST /auth/register: status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	login := `{"email": "nadie@mail.com", "password": "pw123"}`
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(login))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("POST /auth/login: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	google := `{"name": "Ana", "surname": "Luz", "email": "ana@mail.com", "username": "analuz", "google_sub": "sub-123"}`
	req = httptest.NewRequest(http.MethodPost, "/auth/google", strings.NewReader(google))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("POST /auth/google: status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var body service.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding auth response: %v", err)
	}
	if body.Token == "" {
		t.Error("expected a signed token")
	}
}

func TestAuthRoutesNotAtRoot(t *testing.T) {
	router := authRouter(&creatingPersonRepo{})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("POST /register: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
