package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"retohub/internal/common"
	"retohub/internal/domain/model"
)

type SocialRepository interface {
	InsertPost(ctx context.Context, p *model.Post) error
	ListPosts(ctx context.Context, limit, offset int) ([]model.Post, error)
	FindPostByID(ctx context.Context, id int) (*model.Post, error)
	GetCommentsByPostID(ctx context.Context, postID int) ([]model.Comment, error)
	GetReactionCountsByPostID(ctx context.Context, postID int) ([]model.ReactionCount, error)
	InsertComment(ctx context.Context, postID int, c *model.Comment) error
	UpsertReaction(ctx context.Context, personID, postID, reactionTypeID int) (model.ReactionOutcome, error)
	DeleteReaction(ctx context.Context, personID, postID int) error
}

type pgSocialRepository struct {
	db *sql.DB
}

func NewPgSocialRepository(db *sql.DB) SocialRepository {
	return &pgSocialRepository{db: db}
}

func (r *pgSocialRepository) InsertPost(ctx context.Context, p *model.Post) error {
	query := `INSERT INTO posts (content, created_at, person_id) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.Content, p.CreatedAt, p.PersonID).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("pgSocialRepository.InsertPost: %w", err)
	}
	return nil
}

func (r *pgSocialRepository) ListPosts(ctx context.Context, limit, offset int) ([]model.Post, error) {
	query := `SELECT p.id, p.content, p.created_at, per.id, per.username
	          FROM posts p
	          JOIN persons per ON p.person_id = per.id
	          ORDER BY p.created_at DESC
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgSocialRepository.ListPosts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Content, &p.CreatedAt, &p.PersonID, &p.AuthorUsername); err != nil {
			return nil, fmt.Errorf("pgSocialRepository.ListPosts scan: %w", err)
		}
		posts = append(posts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSocialRepository.ListPosts rows.Err: %w", err)
	}
	return posts, nil
}

func (r *pgSocialRepository) FindPostByID(ctx context.Context, id int) (*model.Post, error) {
	query := `SELECT p.id, p.content, p.created_at, per.id, per.username
	          FROM posts p
	          JOIN persons per ON p.person_id = per.id
	          WHERE p.id = $1`
	p := &model.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Content, &p.CreatedAt, &p.PersonID, &p.AuthorUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSocialRepository.FindPostByID: %w", err)
	}
	return p, nil
}

func (r *pgSocialRepository) GetCommentsByPostID(ctx context.Context, postID int) ([]model.Comment, error) {
	query := `SELECT c.id, c.content, c.created_at, c.parent_comment_id, per.id, per.username
	          FROM comments c
	          JOIN persons per ON c.person_id = per.id
	          WHERE c.post_id = $1
	          ORDER BY c.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("pgSocialRepository.GetCommentsByPostID: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.CreatedAt, &c.ParentCommentID, &c.PersonID, &c.AuthorUsername); err != nil {
			return nil, fmt.Errorf("pgSocialRepository.GetCommentsByPostID scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSocialRepository.GetCommentsByPostID rows.Err: %w", err)
	}
	return comments, nil
}

// GetReactionCountsByPostID builds the histogram over ALL reaction types;
// the left join keeps zero-count types in the result.
func (r *pgSocialRepository) GetReactionCountsByPostID(ctx context.Context, postID int) ([]model.ReactionCount, error) {
	query := `SELECT rt.id, rt.name, COUNT(re.person_id)
	          FROM reaction_types rt
	          LEFT JOIN reactions re ON rt.id = re.reaction_type_id AND re.post_id = $1
	          GROUP BY rt.id, rt.name
	          ORDER BY rt.id ASC`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("pgSocialRepository.GetReactionCountsByPostID: %w", err)
	}
	defer rows.Close()

	counts := []model.ReactionCount{}
	for rows.Next() {
		var rc model.ReactionCount
		if err := rows.Scan(&rc.ReactionTypeID, &rc.Name, &rc.Count); err != nil {
			return nil, fmt.Errorf("pgSocialRepository.GetReactionCountsByPostID scan: %w", err)
		}
		counts = append(counts, rc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSocialRepository.GetReactionCountsByPostID rows.Err: %w", err)
	}
	return counts, nil
}

func (r *pgSocialRepository) InsertComment(ctx context.Context, postID int, c *model.Comment) error {
	query := `INSERT INTO comments (content, created_at, post_id, person_id, parent_comment_id)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		c.Content, c.CreatedAt, postID, c.PersonID, c.ParentCommentID,
	).Scan(&c.ID)
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("post or parent comment does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgSocialRepository.InsertComment: %w", err)
	}
	return nil
}

// UpsertReaction relies on the store's conflict-update primitive so the
// check-then-write is race-free. The update is filtered to rows whose type
// actually changes; no returned row therefore means "unchanged", and for
// changed rows xmax distinguishes a fresh insert from an overwrite.
func (r *pgSocialRepository) UpsertReaction(ctx context.Context, personID, postID, reactionTypeID int) (model.ReactionOutcome, error) {
	query := `INSERT INTO reactions (post_id, person_id, reaction_type_id)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (post_id, person_id) DO UPDATE
	          SET reaction_type_id = EXCLUDED.reaction_type_id
	          WHERE reactions.reaction_type_id IS DISTINCT FROM EXCLUDED.reaction_type_id
	          RETURNING (xmax = 0)`
	var inserted bool
	err := r.db.QueryRowContext(ctx, query, postID, personID, reactionTypeID).Scan(&inserted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReactionUnchanged, nil
		}
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgForeignKeyViolation {
			return 0, fmt.Errorf("post or reaction type does not exist: %w", common.ErrNotFound)
		}
		return 0, fmt.Errorf("pgSocialRepository.UpsertReaction: %w", err)
	}
	if inserted {
		return model.ReactionCreated, nil
	}
	return model.ReactionUpdated, nil
}

func (r *pgSocialRepository) DeleteReaction(ctx context.Context, personID, postID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reactions WHERE post_id = $1 AND person_id = $2`, postID, personID)
	if err != nil {
		return fmt.Errorf("pgSocialRepository.DeleteReaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgSocialRepository.DeleteReaction rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("reaction not found: %w", common.ErrNotFound)
	}
	return nil
}
