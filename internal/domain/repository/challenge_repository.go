package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"retohub/internal/common"
	"retohub/internal/domain/model"
)

type ChallengeRepository interface {
	// Transactional pieces of challenge creation. The caller owns the
	// transaction scope.
	FindDifficultyByName(ctx context.Context, tx *sql.Tx, name string) (*model.Difficulty, error)
	InsertChallenge(ctx context.Context, tx *sql.Tx, ch *model.Challenge) error
	FindLanguagesByNames(ctx context.Context, tx *sql.Tx, names []string) ([]model.Language, error)
	AddChallengeLanguages(ctx context.Context, tx *sql.Tx, challengeID int, languageIDs []int) error
	AddTests(ctx context.Context, tx *sql.Tx, challengeID int, tests []model.TestCase) error

	ListChallenges(ctx context.Context, limit, offset int) ([]model.ChallengeSummary, error)
	FindChallengeByID(ctx context.Context, id int) (*model.Challenge, error)
	FindChallengeBySlug(ctx context.Context, slug string) (*model.Challenge, error)
	GetLanguagesByChallengeID(ctx context.Context, challengeID int) ([]model.Language, error)
	GetPublicTestsByChallengeID(ctx context.Context, challengeID int) ([]model.TestCase, error)
}

type pgChallengeRepository struct {
	db *sql.DB
}

func NewPgChallengeRepository(db *sql.DB) ChallengeRepository {
	return &pgChallengeRepository{db: db}
}

func (r *pgChallengeRepository) FindDifficultyByName(ctx context.Context, tx *sql.Tx, name string) (*model.Difficulty, error) {
	query := `SELECT id, name FROM difficulties WHERE name = $1`
	d := &model.Difficulty{}
	err := tx.QueryRowContext(ctx, query, name).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindDifficultyByName: %w", err)
	}
	return d, nil
}

func (r *pgChallengeRepository) InsertChallenge(ctx context.Context, tx *sql.Tx, ch *model.Challenge) error {
	query := `INSERT INTO challenges (title, slug, description, published_at, time_limit_seconds, difficulty_id)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := tx.QueryRowContext(ctx, query,
		ch.Title, ch.Slug, ch.Description, ch.PublishedAt, ch.TimeLimitSeconds, ch.DifficultyID,
	).Scan(&ch.ID)
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("challenge with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgChallengeRepository.InsertChallenge: %w", err)
	}
	return nil
}

func (r *pgChallengeRepository) FindLanguagesByNames(ctx context.Context, tx *sql.Tx, names []string) ([]model.Language, error) {
	if len(names) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, name := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = name
	}
	query := fmt.Sprintf(`SELECT id, name, version FROM languages WHERE name IN (%s)`,
		strings.Join(placeholders, ","))

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.FindLanguagesByNames: %w", err)
	}
	defer rows.Close()

	var languages []model.Language
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name, &l.Version); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.FindLanguagesByNames scan: %w", err)
		}
		languages = append(languages, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.FindLanguagesByNames rows.Err: %w", err)
	}
	return languages, nil
}

func (r *pgChallengeRepository) AddChallengeLanguages(ctx context.Context, tx *sql.Tx, challengeID int, languageIDs []int) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO challenge_languages (challenge_id, language_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.AddChallengeLanguages prepare: %w", err)
	}
	defer stmt.Close()

	for _, languageID := range languageIDs {
		if _, err := stmt.ExecContext(ctx, challengeID, languageID); err != nil {
			return fmt.Errorf("pgChallengeRepository.AddChallengeLanguages exec for language %d: %w", languageID, err)
		}
	}
	return nil
}

func (r *pgChallengeRepository) AddTests(ctx context.Context, tx *sql.Tx, challengeID int, tests []model.TestCase) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tests (input, expected_output, is_public, challenge_id) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.AddTests prepare: %w", err)
	}
	defer stmt.Close()

	for i, tc := range tests {
		if _, err := stmt.ExecContext(ctx, tc.Input, tc.ExpectedOutput, tc.IsPublic, challengeID); err != nil {
			return fmt.Errorf("pgChallengeRepository.AddTests exec for test %d: %w", i, err)
		}
	}
	return nil
}

func (r *pgChallengeRepository) ListChallenges(ctx context.Context, limit, offset int) ([]model.ChallengeSummary, error) {
	query := `SELECT c.id, c.title, c.slug, c.published_at, d.name
	          FROM challenges c
	          JOIN difficulties d ON c.difficulty_id = d.id
	          ORDER BY c.published_at DESC
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListChallenges: %w", err)
	}
	defer rows.Close()

	challenges := []model.ChallengeSummary{}
	for rows.Next() {
		var c model.ChallengeSummary
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.PublishedAt, &c.DifficultyName); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.ListChallenges scan: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListChallenges rows.Err: %w", err)
	}
	return challenges, nil
}

const challengeDetailQuery = `SELECT c.id, c.title, c.slug, c.description, c.published_at, c.time_limit_seconds, c.difficulty_id, d.name
	          FROM challenges c
	          JOIN difficulties d ON c.difficulty_id = d.id`

func (r *pgChallengeRepository) FindChallengeByID(ctx context.Context, id int) (*model.Challenge, error) {
	return r.scanChallenge(r.db.QueryRowContext(ctx, challengeDetailQuery+` WHERE c.id = $1`, id), "FindChallengeByID")
}

func (r *pgChallengeRepository) FindChallengeBySlug(ctx context.Context, slug string) (*model.Challenge, error) {
	return r.scanChallenge(r.db.QueryRowContext(ctx, challengeDetailQuery+` WHERE c.slug = $1`, slug), "FindChallengeBySlug")
}

func (r *pgChallengeRepository) scanChallenge(row *sql.Row, op string) (*model.Challenge, error) {
	ch := &model.Challenge{}
	err := row.Scan(&ch.ID, &ch.Title, &ch.Slug, &ch.Description, &ch.PublishedAt,
		&ch.TimeLimitSeconds, &ch.DifficultyID, &ch.DifficultyName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgChallengeRepository.%s: %w", op, err)
	}
	return ch, nil
}

func (r *pgChallengeRepository) GetLanguagesByChallengeID(ctx context.Context, challengeID int) ([]model.Language, error) {
	query := `SELECT l.id, l.name, l.version
	          FROM languages l
	          JOIN challenge_languages cl ON l.id = cl.language_id
	          WHERE cl.challenge_id = $1`
	rows, err := r.db.QueryContext(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.GetLanguagesByChallengeID: %w", err)
	}
	defer rows.Close()

	languages := []model.Language{}
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name, &l.Version); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.GetLanguagesByChallengeID scan: %w", err)
		}
		languages = append(languages, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.GetLanguagesByChallengeID rows.Err: %w", err)
	}
	return languages, nil
}

// GetPublicTestsByChallengeID returns public cases only. Private tests
// never leave the store.
func (r *pgChallengeRepository) GetPublicTestsByChallengeID(ctx context.Context, challengeID int) ([]model.TestCase, error) {
	query := `SELECT input, expected_output FROM tests WHERE challenge_id = $1 AND is_public = TRUE`
	rows, err := r.db.QueryContext(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.GetPublicTestsByChallengeID: %w", err)
	}
	defer rows.Close()

	tests := []model.TestCase{}
	for rows.Next() {
		tc := model.TestCase{IsPublic: true}
		if err := rows.Scan(&tc.Input, &tc.ExpectedOutput); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.GetPublicTestsByChallengeID scan: %w", err)
		}
		tests = append(tests, tc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.GetPublicTestsByChallengeID rows.Err: %w", err)
	}
	return tests, nil
}
