package ports

import (
	"context"

	"github.com/tubeworks/media-api/internal/core/domain"
)

// EngagementService covers likes and comments. Comment deletion verifies
// ownership of the comment, not of the video.
type EngagementService interface {
	ToggleLike(ctx context.Context, videoID, userID string) (liked bool, err error)
	AddComment(ctx context.Context, videoID, ownerID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, videoID string, page, limit int) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID string) error
}
