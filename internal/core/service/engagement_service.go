package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

// EngagementService implements likes and comments over videos.
type EngagementService struct {
	videos   ports.VideoRepository
	likes    ports.LikeRepository
	comments ports.CommentRepository
	logger   zerolog.Logger
}

func NewEngagementService(videos ports.VideoRepository, likes ports.LikeRepository, comments ports.CommentRepository, logger zerolog.Logger) *EngagementService {
	return &EngagementService{
		videos:   videos,
		likes:    likes,
		comments: comments,
		logger:   logger,
	}
}

// ToggleLike likes the video if the user has not liked it, otherwise removes
// the like. Returns the resulting state.
func (s *EngagementService) ToggleLike(ctx context.Context, videoID, userID string) (bool, error) {
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return false, err
	}

	existing, err := s.likes.Find(ctx, videoID, userID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.likes.Delete(ctx, existing.ID); err != nil {
			return false, fmt.Errorf("remove like: %w", err)
		}
		return false, nil
	}

	like := &domain.Like{
		VideoID:   videoID,
		LikedBy:   userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.likes.Create(ctx, like); err != nil {
		return false, fmt.Errorf("create like: %w", err)
	}
	return true, nil
}

func (s *EngagementService) AddComment(ctx context.Context, videoID, ownerID, content string) (*domain.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: empty comment", domain.ErrInvalidInput)
	}
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	return s.comments.Create(ctx, comment)
}

func (s *EngagementService) ListComments(ctx context.Context, videoID string, page, limit int) ([]domain.Comment, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.comments.ListForVideo(ctx, videoID, page, limit)
}

// DeleteComment removes a comment after verifying the caller wrote it.
func (s *EngagementService) DeleteComment(ctx context.Context, actorID, commentID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := domain.RequireOwner(actorID, comment.OwnerID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}
