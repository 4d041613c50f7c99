package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"retohub/internal/common"
	"retohub/internal/common/security"
	"retohub/internal/domain/model"
	"retohub/internal/domain/repository"

	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	namePattern  = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñ\s]+$`)
)

type AuthService struct {
	personRepo repository.PersonRepository
}

func NewAuthService(personRepo repository.PersonRepository) *AuthService {
	return &AuthService{personRepo: personRepo}
}

type RegisterRequest struct {
	Name         string  `json:"name"`
	Surname      string  `json:"surname"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Username     string  `json:"username"`
	RefreshToken *string `json:"refresh_token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthRequest carries the identity fields the frontend extracts from
// the Google credential. GoogleSub stands in for the password on the
// register path.
type GoogleAuthRequest struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	GoogleSub string `json:"google_sub"`
}

type AuthResponse struct {
	PersonID int    `json:"person_id"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token"`
}

// Register validates the input and creates an account with the member
// role. Returns the new person id.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (int, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if req.Name == "" || req.Surname == "" || req.Email == "" || req.Password == "" || req.Username == "" {
		return 0, fmt.Errorf("missing required registration fields: %w", common.ErrBadRequest)
	}
	if !emailPattern.MatchString(req.Email) {
		return 0, fmt.Errorf("invalid email format: %w", common.ErrBadRequest)
	}
	if !namePattern.MatchString(req.Name) || !namePattern.MatchString(req.Surname) {
		return 0, fmt.Errorf("name and surname must contain letters and spaces only: %w", common.ErrBadRequest)
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	person := &model.Person{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		RefreshToken: req.RefreshToken,
		RoleID:       model.RoleMember,
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		return 0, err
	}
	return person.ID, nil
}

// Login verifies credentials and issues a token whose subject is the
// person id. Any mismatch yields the same generic unauthorized error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("missing email or password: %w", common.ErrBadRequest)
	}

	creds, err := s.personRepo.GetCredentials(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
		}
		return nil, err
	}
	if !security.CheckPasswordHash(req.Password, creds.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}

	token, err := security.GenerateToken(creds.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{PersonID: creds.ID, Token: token}, nil
}

// GoogleAuth logs an existing account in by email, or registers a new one
// using the Google subject as the password source. The second return value
// reports whether an account was created.
func (s *AuthService) GoogleAuth(ctx context.Context, req GoogleAuthRequest) (*AuthResponse, bool, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Surname == "" || req.Email == "" || req.Username == "" || req.GoogleSub == "" {
		return nil, false, fmt.Errorf("missing google identity fields: %w", common.ErrBadRequest)
	}

	person, err := s.personRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		token, err := security.GenerateToken(person.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to generate token: %w", err)
		}
		return &AuthResponse{PersonID: person.ID, Username: person.Username, Token: token}, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	refresh := uuid.NewString()
	id, err := s.Register(ctx, RegisterRequest{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		Password:     req.GoogleSub,
		Username:     strings.TrimSpace(req.Username),
		RefreshToken: &refresh,
	})
	if err != nil {
		return nil, false, err
	}

	token, err := security.GenerateToken(id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{PersonID: id, Username: req.Username, Token: token}, true, nil
}
