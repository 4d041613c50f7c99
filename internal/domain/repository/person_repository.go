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

type PersonRepository interface {
	ListActive(ctx context.Context, limit, offset int) ([]model.Person, error)
	FindByID(ctx context.Context, id int) (*model.Person, error)
	FindByEmail(ctx context.Context, email string) (*model.Person, error)
	Create(ctx context.Context, p *model.Person) error
	UpdatePartial(ctx context.Context, id int, upd model.PersonUpdate) error
	SoftDelete(ctx context.Context, id int) error
	GetCredentials(ctx context.Context, email string) (*model.Credentials, error)
	GetRanking(ctx context.Context, limit, offset int) ([]model.RankingEntry, error)
	AdjustScore(ctx context.Context, id, scoreDelta, solvedDelta int) error
}

type pgPersonRepository struct {
	db *sql.DB
}

func NewPgPersonRepository(db *sql.DB) PersonRepository {
	return &pgPersonRepository{db: db}
}

const personColumns = `id, name, surname, email, username, role_id, solved_count, total_score`

func (r *pgPersonRepository) ListActive(ctx context.Context, limit, offset int) ([]model.Person, error) {
	query := `SELECT ` + personColumns + `
	          FROM persons WHERE active = TRUE
	          ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgPersonRepository.ListActive: %w", err)
	}
	defer rows.Close()

	persons := []model.Person{}
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Surname, &p.Email, &p.Username, &p.RoleID, &p.SolvedCount, &p.TotalScore); err != nil {
			return nil, fmt.Errorf("pgPersonRepository.ListActive scan: %w", err)
		}
		persons = append(persons, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPersonRepository.ListActive rows.Err: %w", err)
	}
	return persons, nil
}

func (r *pgPersonRepository) FindByID(ctx context.Context, id int) (*model.Person, error) {
	query := `SELECT ` + personColumns + `
	          FROM persons WHERE id = $1 AND active = TRUE`
	return r.scanPerson(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgPersonRepository) FindByEmail(ctx context.Context, email string) (*model.Person, error) {
	query := `SELECT ` + personColumns + `
	          FROM persons WHERE email = $1 AND active = TRUE`
	return r.scanPerson(r.db.QueryRowContext(ctx, query, email), "FindByEmail")
}

func (r *pgPersonRepository) scanPerson(row *sql.Row, op string) (*model.Person, error) {
	p := &model.Person{}
	err := row.Scan(&p.ID, &p.Name, &p.Surname, &p.Email, &p.Username, &p.RoleID, &p.SolvedCount, &p.TotalScore)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPersonRepository.%s: %w", op, err)
	}
	return p, nil
}

func (r *pgPersonRepository) Create(ctx context.Context, p *model.Person) error {
	query := `INSERT INTO persons (name, surname, email, password_hash, username, refresh_token, role_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Surname, p.Email, p.PasswordHash, p.Username, p.RefreshToken, p.RoleID,
	).Scan(&p.ID)
	if err != nil {
		if conflictErr := personConflict(err); conflictErr != nil {
			return conflictErr
		}
		if storeUnreachable(err) {
			return fmt.Errorf("database unreachable: %w", common.ErrServiceUnavailable)
		}
		return fmt.Errorf("pgPersonRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPersonRepository) UpdatePartial(ctx context.Context, id int, upd model.PersonUpdate) error {
	var assignments []string
	var args []interface{}
	argID := 1

	addField := func(column string, value *string) {
		if value != nil {
			assignments = append(assignments, fmt.Sprintf("%s = $%d", column, argID))
			args = append(args, *value)
			argID++
		}
	}
	addField("name", upd.Name)
	addField("surname", upd.Surname)
	addField("username", upd.Username)
	addField("refresh_token", upd.RefreshToken)

	if len(assignments) == 0 {
		return fmt.Errorf("no updatable fields provided: %w", common.ErrBadRequest)
	}

	query := fmt.Sprintf("UPDATE persons SET %s WHERE id = $%d AND active = TRUE",
		strings.Join(assignments, ", "), argID)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if conflictErr := personConflict(err); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("pgPersonRepository.UpdatePartial: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgPersonRepository.UpdatePartial rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("person not found or inactive: %w", common.ErrNotFound)
	}
	return nil
}

func (r *pgPersonRepository) SoftDelete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE persons SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPersonRepository.SoftDelete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgPersonRepository.SoftDelete rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("person not found: %w", common.ErrNotFound)
	}
	return nil
}

func (r *pgPersonRepository) GetCredentials(ctx context.Context, email string) (*model.Credentials, error) {
	query := `SELECT id, password_hash, role_id FROM persons WHERE email = $1 AND active = TRUE`
	creds := &model.Credentials{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&creds.ID, &creds.PasswordHash, &creds.RoleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPersonRepository.GetCredentials: %w", err)
	}
	return creds, nil
}

// GetRanking orders by (score desc, solved desc, id asc). The id tie-break
// keeps pagination stable across repeated calls when scores are equal.
func (r *pgPersonRepository) GetRanking(ctx context.Context, limit, offset int) ([]model.RankingEntry, error) {
	query := `SELECT id, username, total_score, solved_count
	          FROM persons WHERE active = TRUE
	          ORDER BY total_score DESC, solved_count DESC, id ASC
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgPersonRepository.GetRanking: %w", err)
	}
	defer rows.Close()

	entries := []model.RankingEntry{}
	for rows.Next() {
		var e model.RankingEntry
		if err := rows.Scan(&e.PersonID, &e.Username, &e.TotalScore, &e.SolvedCount); err != nil {
			return nil, fmt.Errorf("pgPersonRepository.GetRanking scan: %w", err)
		}
		e.Rank = offset + len(entries) + 1
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPersonRepository.GetRanking rows.Err: %w", err)
	}
	return entries, nil
}

func (r *pgPersonRepository) AdjustScore(ctx context.Context, id, scoreDelta, solvedDelta int) error {
	query := `UPDATE persons
	          SET total_score = total_score + $1, solved_count = solved_count + $2
	          WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, scoreDelta, solvedDelta, id)
	if err != nil {
		return fmt.Errorf("pgPersonRepository.AdjustScore: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgPersonRepository.AdjustScore rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("person not found: %w", common.ErrNotFound)
	}
	return nil
}

// personConflict maps a unique violation to a conflict error naming the
// colliding column.
func personConflict(err error) error {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != pgUniqueViolation {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return fmt.Errorf("email already registered: %w", common.ErrConflict)
	case strings.Contains(pgErr.ConstraintName, "username"):
		return fmt.Errorf("username already taken: %w", common.ErrConflict)
	default:
		return fmt.Errorf("unique value already exists: %w", common.ErrConflict)
	}
}
