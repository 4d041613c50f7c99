package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"retohub/internal/common"
	"retohub/internal/domain/model"
	"retohub/internal/domain/repository"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	db             *sql.DB // For transactions
}

func NewSubmissionService(submissionRepo repository.SubmissionRepository, db *sql.DB) *SubmissionService {
	return &SubmissionService{submissionRepo: submissionRepo, db: db}
}

type CreateSubmissionRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
}

// CreateSubmission records a pending submission. Scoring belongs to an
// external judge; nothing here evaluates the code.
func (s *SubmissionService) CreateSubmission(ctx context.Context, personID, challengeID int, req CreateSubmissionRequest) (*model.Submission, error) {
	if req.SourceCode == "" {
		return nil, fmt.Errorf("source code is required: %w", common.ErrBadRequest)
	}
	if req.LanguageID <= 0 {
		return nil, fmt.Errorf("language_id must be a positive integer: %w", common.ErrBadRequest)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pendingID, err := s.submissionRepo.FindStatusIDByName(ctx, tx, model.StatusPending)
	if err != nil {
		return nil, err
	}

	submission := &model.Submission{
		SourceCode:  req.SourceCode,
		SubmittedAt: time.Now().UTC(),
		Score:       0,
		PersonID:    personID,
		ChallengeID: challengeID,
		LanguageID:  req.LanguageID,
		StatusID:    pendingID,
	}
	if err := s.submissionRepo.InsertSubmission(ctx, tx, submission); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	return submission, nil
}
