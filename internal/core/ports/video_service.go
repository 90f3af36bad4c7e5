package ports

import (
	"context"

	"github.com/tubeworks/media-api/internal/core/domain"
)

// PublishVideoInput carries the data for publishing a new video. File and
// thumbnail URLs come from the upload collaborator.
type PublishVideoInput struct {
	OwnerID     string
	Title       string
	Description string
	VideoFile   string
	Thumbnail   string
	Duration    float64
}

// WatchResult is the detail view returned when a video is watched.
type WatchResult struct {
	Video      domain.Video
	Owner      domain.User
	LikesCount int64
	IsLiked    bool
}

// ViewEvent is one watch of a video by a viewer. ViewerID is empty for
// anonymous views.
type ViewEvent struct {
	VideoID  string
	ViewerID string
}

// VideoService defines use-case operations over videos. Update, Delete and
// TogglePublish verify ownership before mutating.
type VideoService interface {
	Publish(ctx context.Context, input PublishVideoInput) (*domain.Video, error)
	List(ctx context.Context, filter VideoFilter) ([]domain.Video, error)
	Watch(ctx context.Context, videoID, viewerID string) (*WatchResult, error)
	Update(ctx context.Context, actorID, videoID string, fields VideoUpdate) (*domain.Video, error)
	Delete(ctx context.Context, actorID, videoID string) error
	TogglePublish(ctx context.Context, actorID, videoID string) (*domain.Video, error)

	// ProcessView persists one view: unique-view counting plus watch
	// history. Invoked by the view dispatcher workers.
	ProcessView(ctx context.Context, event ViewEvent) error
}

// ViewQueue decouples watch requests from view persistence. Events for the
// same video are processed in order.
type ViewQueue interface {
	Enqueue(event ViewEvent)
}
