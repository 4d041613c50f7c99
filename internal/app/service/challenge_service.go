package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"retohub/internal/common"
	"retohub/internal/domain/model"
	"retohub/internal/domain/repository"

	"github.com/gosimple/slug"
)

type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	db            *sql.DB // For transactions
}

func NewChallengeService(challengeRepo repository.ChallengeRepository, db *sql.DB) *ChallengeService {
	return &ChallengeService{challengeRepo: challengeRepo, db: db}
}

type CreateTestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	IsPublic       *bool  `json:"is_public"` // defaults to true
}

type CreateChallengeRequest struct {
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	TimeLimitSeconds *int             `json:"time_limit_seconds"`
	DifficultyName   string           `json:"difficulty"`
	Languages        []string         `json:"languages"`
	Tests            []CreateTestCase `json:"tests"`
}

// CreateChallenge inserts the challenge, its language links and its tests
// in one transaction. A partially created challenge must never be
// observable, so any failure rolls the whole thing back.
func (s *ChallengeService) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*model.Challenge, error) {
	if req.Title == "" || req.Description == "" || req.DifficultyName == "" {
		return nil, fmt.Errorf("missing required fields for challenge creation: %w", common.ErrBadRequest)
	}
	if len(req.Languages) == 0 {
		return nil, fmt.Errorf("at least one language is required: %w", common.ErrBadRequest)
	}
	if len(req.Tests) == 0 {
		return nil, fmt.Errorf("at least one test case is required: %w", common.ErrBadRequest)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	difficulty, err := s.challengeRepo.FindDifficultyByName(ctx, tx, req.DifficultyName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("difficulty %q not found: %w", req.DifficultyName, common.ErrBadRequest)
		}
		return nil, err
	}

	challenge := &model.Challenge{
		Title:            req.Title,
		Slug:             slug.Make(req.Title),
		Description:      req.Description,
		PublishedAt:      time.Now().UTC(),
		TimeLimitSeconds: req.TimeLimitSeconds,
		DifficultyID:     difficulty.ID,
		DifficultyName:   difficulty.Name,
	}
	if err := s.challengeRepo.InsertChallenge(ctx, tx, challenge); err != nil {
		return nil, err
	}

	languages, err := s.challengeRepo.FindLanguagesByNames(ctx, tx, req.Languages)
	if err != nil {
		return nil, err
	}
	// Any unknown language name aborts the whole creation.
	if len(languages) != len(req.Languages) {
		return nil, fmt.Errorf("one or more languages are not valid: %w", common.ErrBadRequest)
	}
	languageIDs := make([]int, len(languages))
	for i, l := range languages {
		languageIDs[i] = l.ID
	}
	if err := s.challengeRepo.AddChallengeLanguages(ctx, tx, challenge.ID, languageIDs); err != nil {
		return nil, err
	}

	tests := make([]model.TestCase, len(req.Tests))
	for i, tc := range req.Tests {
		isPublic := true
		if tc.IsPublic != nil {
			isPublic = *tc.IsPublic
		}
		tests[i] = model.TestCase{Input: tc.Input, ExpectedOutput: tc.ExpectedOutput, IsPublic: isPublic}
	}
	if err := s.challengeRepo.AddTests(ctx, tx, challenge.ID, tests); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return challenge, nil
}

func (s *ChallengeService) ListChallenges(ctx context.Context, page, pageSize int) ([]model.ChallengeSummary, error) {
	limit, offset := limitOffset(page, pageSize)
	return s.challengeRepo.ListChallenges(ctx, limit, offset)
}

// GetChallengeByID assembles the detail from three independent reads: the
// row, the allowed languages, and the public tests.
func (s *ChallengeService) GetChallengeByID(ctx context.Context, id int) (*model.ChallengeDetail, error) {
	challenge, err := s.challengeRepo.FindChallengeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, challenge)
}

func (s *ChallengeService) GetChallengeBySlug(ctx context.Context, challengeSlug string) (*model.ChallengeDetail, error) {
	challenge, err := s.challengeRepo.FindChallengeBySlug(ctx, challengeSlug)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, challenge)
}

func (s *ChallengeService) assembleDetail(ctx context.Context, challenge *model.Challenge) (*model.ChallengeDetail, error) {
	languages, err := s.challengeRepo.GetLanguagesByChallengeID(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}
	tests, err := s.challengeRepo.GetPublicTestsByChallengeID(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}
	return &model.ChallengeDetail{Challenge: *challenge, Languages: languages, Tests: tests}, nil
}
