package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"retohub/internal/common"
	"retohub/internal/domain/model"
)

type SubmissionRepository interface {
	FindStatusIDByName(ctx context.Context, tx *sql.Tx, name string) (int, error)
	InsertSubmission(ctx context.Context, tx *sql.Tx, sub *model.Submission) error
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

// FindStatusIDByName resolves a status reference row. A missing row is a
// deployment invariant violation, not a caller error.
func (r *pgSubmissionRepository) FindStatusIDByName(ctx context.Context, tx *sql.Tx, name string) (int, error) {
	var id int
	err := tx.QueryRowContext(ctx, `SELECT id FROM submission_statuses WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("submission status %q missing from reference data: %w", name, common.ErrInternalServer)
		}
		return 0, fmt.Errorf("pgSubmissionRepository.FindStatusIDByName: %w", err)
	}
	return id, nil
}

func (r *pgSubmissionRepository) InsertSubmission(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	query := `INSERT INTO submissions (source_code, submitted_at, score, execution_time_ms, person_id, challenge_id, language_id, status_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := tx.QueryRowContext(ctx, query,
		sub.SourceCode, sub.SubmittedAt, sub.Score, sub.ExecutionTimeMs,
		sub.PersonID, sub.ChallengeID, sub.LanguageID, sub.StatusID,
	).Scan(&sub.ID)
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("challenge or language does not exist: %w", common.ErrBadRequest)
		}
		return fmt.Errorf("pgSubmissionRepository.InsertSubmission: %w", err)
	}
	return nil
}
