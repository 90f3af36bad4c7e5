package ports

import (
	"context"

	"github.com/tubeworks/media-api/internal/core/domain"
)

// VideoRepository persists video records.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (*domain.Video, error)
	FindByID(ctx context.Context, id string) (*domain.Video, error)
	List(ctx context.Context, filter VideoFilter) ([]domain.Video, error)
	Update(ctx context.Context, id string, fields VideoUpdate) (*domain.Video, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

// VideoFilter narrows List. Query matches title/description, case-insensitive.
type VideoFilter struct {
	Query         string
	OwnerID       string
	OnlyPublished bool
	Page          int
	Limit         int
}

// VideoUpdate carries the mutable video fields. Nil means "leave as is".
type VideoUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *string
	IsPublished *bool
}

// LikeRepository persists video likes, at most one per (user, video).
// Find returns (nil, nil) when no like exists.
type LikeRepository interface {
	Find(ctx context.Context, videoID, userID string) (*domain.Like, error)
	Create(ctx context.Context, like *domain.Like) error
	Delete(ctx context.Context, id string) error
	CountForVideo(ctx context.Context, videoID string) (int64, error)
}

// CommentRepository persists video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	ListForVideo(ctx context.Context, videoID string, page, limit int) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}
