package service

import (
	"context"
	"fmt"
	"time"

	"retohub/internal/common"
	"retohub/internal/domain/model"
	"retohub/internal/domain/repository"
)

type SocialService struct {
	socialRepo repository.SocialRepository
}

func NewSocialService(socialRepo repository.SocialRepository) *SocialService {
	return &SocialService{socialRepo: socialRepo}
}

func (s *SocialService) CreatePost(ctx context.Context, personID int, content string) (*model.Post, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", common.ErrBadRequest)
	}
	post := &model.Post{Content: content, CreatedAt: time.Now().UTC(), PersonID: personID}
	if err := s.socialRepo.InsertPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *SocialService) ListPosts(ctx context.Context, page, pageSize int) ([]model.Post, error) {
	limit, offset := limitOffset(page, pageSize)
	return s.socialRepo.ListPosts(ctx, limit, offset)
}

// GetPostDetail returns the post with its full comment list (ascending by
// time, parent ids included for thread reconstruction) and the
// reaction-type histogram.
func (s *SocialService) GetPostDetail(ctx context.Context, id int) (*model.PostDetail, error) {
	post, err := s.socialRepo.FindPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.socialRepo.GetCommentsByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	reactions, err := s.socialRepo.GetReactionCountsByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.PostDetail{Post: *post, Comments: comments, Reactions: reactions}, nil
}

func (s *SocialService) CreateComment(ctx context.Context, personID, postID int, content string, parentCommentID *int) (*model.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", common.ErrBadRequest)
	}
	comment := &model.Comment{
		Content:         content,
		CreatedAt:       time.Now().UTC(),
		ParentCommentID: parentCommentID,
		PersonID:        personID,
	}
	if err := s.socialRepo.InsertComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *SocialService) SetReaction(ctx context.Context, personID, postID, reactionTypeID int) (model.ReactionOutcome, error) {
	if reactionTypeID <= 0 {
		return 0, fmt.Errorf("reaction_type_id must be a positive integer: %w", common.ErrBadRequest)
	}
	return s.socialRepo.UpsertReaction(ctx, personID, postID, reactionTypeID)
}

func (s *SocialService) RemoveReaction(ctx context.Context, personID, postID int) error {
	return s.socialRepo.DeleteReaction(ctx, personID, postID)
}
