package service

import (
	"context"
	"errors"
	"testing"

	"retohub/internal/common"
	"retohub/internal/domain/model"
)

func validRegister() RegisterRequest {
	return RegisterRequest{
		Name:     "Ana",
		Surname:  "Luz",
		Email:    "ana@mail.com",
		Password: "s3cret-pass",
		Username: "analuz",
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(&fakePersonRepo{})

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing name", func(r *RegisterRequest) { r.Name = "" }},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"digits in name", func(r *RegisterRequest) { r.Name = "Ana123" }},
		{"whitespace only name", func(r *RegisterRequest) { r.Name = "   " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegister()
			tc.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, common.ErrBadRequest) {
				t.Errorf("err = %v, want ErrBadRequest", err)
			}
		})
	}
}

func TestRegisterAcceptsAccentedNames(t *testing.T) {
	svc := NewAuthService(&fakePersonRepo{})
	req := validRegister()
	req.Name = "José Ángel"
	req.Surname = "Muñoz"
	id, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == 0 {
		t.Error("expected a non-zero person id")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	repo := &fakePersonRepo{}
	svc := NewAuthService(repo)

	id, err := svc.Register(context.Background(), validRegister())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if repo.persons[0].RoleID != model.RoleMember {
		t.Errorf("new accounts must get the member role, got %d", repo.persons[0].RoleID)
	}
	if repo.persons[0].PasswordHash == "s3cret-pass" {
		t.Error("password stored in plaintext")
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ana@mail.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.PersonID != id {
		t.Errorf("resp.PersonID = %d, want %d", resp.PersonID, id)
	}
	if resp.Token == "" {
		t.Error("expected a signed token")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := &fakePersonRepo{}
	svc := NewAuthService(repo)
	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, err := svc.Login(context.Background(), LoginRequest{Email: "nadie@mail.com", Password: "s3cret-pass"})
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Errorf("unknown email: err = %v, want ErrUnauthorized", err)
	}
	_, err = svc.Login(context.Background(), LoginRequest{Email: "ana@mail.com", Password: "wrong"})
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Errorf("wrong password: err = %v, want ErrUnauthorized", err)
	}
}

func TestGoogleAuthRegistersNewAccount(t *testing.T) {
	repo := &fakePersonRepo{}
	svc := NewAuthService(repo)

	resp, created, err := svc.GoogleAuth(context.Background(), GoogleAuthRequest{
		Name: "Ana", Surname: "Luz", Email: "ana@mail.com", Username: "analuz", GoogleSub: "google-sub-123",
	})
	if err != nil {
		t.Fatalf("GoogleAuth: %v", err)
	}
	if !created {
		t.Error("expected created = true for a new account")
	}
	if resp.Token == "" {
		t.Error("expected a signed token")
	}
	if repo.persons[0].RefreshToken == nil || *repo.persons[0].RefreshToken == "" {
		t.Error("google-registered accounts must carry a refresh token")
	}
}

func TestGoogleAuthLogsInExistingAccount(t *testing.T) {
	repo := &fakePersonRepo{}
	svc := NewAuthService(repo)
	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, created, err := svc.GoogleAuth(context.Background(), GoogleAuthRequest{
		Name: "Ana", Surname: "Luz", Email: "ana@mail.com", Username: "analuz", GoogleSub: "google-sub-123",
	})
	if err != nil {
		t.Fatalf("GoogleAuth: %v", err)
	}
	if created {
		t.Error("expected created = false for an existing account")
	}
	if resp.PersonID != repo.persons[0].ID {
		t.Errorf("resp.PersonID = %d, want %d", resp.PersonID, repo.persons[0].ID)
	}
}
