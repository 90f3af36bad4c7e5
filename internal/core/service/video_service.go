package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

// ViewMarker provides unique-view detection: a (video, viewer) pair counts
// at most one view per marker TTL window.
type ViewMarker interface {
	IsSeen(ctx context.Context, videoID, viewerID string) (bool, error)
	MarkSeen(ctx context.Context, videoID, viewerID string) error
}

// VideoService implements video publishing, browsing, watching and the
// owner-gated mutations.
type VideoService struct {
	videos   ports.VideoRepository
	users    ports.UserRepository
	likes    ports.LikeRepository
	viewMark ViewMarker
	views    ports.ViewQueue
	logger   zerolog.Logger
}

func NewVideoService(videos ports.VideoRepository, users ports.UserRepository, likes ports.LikeRepository, viewMark ViewMarker, logger zerolog.Logger) *VideoService {
	return &VideoService{
		videos:   videos,
		users:    users,
		likes:    likes,
		viewMark: viewMark,
		logger:   logger,
	}
}

// SetViewQueue wires the async view pipeline. Without a queue, views are
// persisted inline on the request path.
func (s *VideoService) SetViewQueue(q ports.ViewQueue) {
	s.views = q
}

func (s *VideoService) Publish(ctx context.Context, input ports.PublishVideoInput) (*domain.Video, error) {
	if input.Title == "" || input.Description == "" || input.VideoFile == "" || input.Thumbnail == "" {
		return nil, fmt.Errorf("%w: missing required video fields", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	video := &domain.Video{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		VideoFile:   input.VideoFile,
		Thumbnail:   input.Thumbnail,
		Duration:    input.Duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.videos.Create(ctx, video)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", input.OwnerID).Msg("failed to publish video")
		return nil, err
	}

	s.logger.Info().Str("video_id", created.ID).Str("owner_id", created.OwnerID).Msg("video published")
	return created, nil
}

func (s *VideoService) List(ctx context.Context, filter ports.VideoFilter) ([]domain.Video, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	filter.OnlyPublished = true
	return s.videos.List(ctx, filter)
}

// Watch returns the detail view and records the view. View persistence is
// enqueued so the read path never blocks on the counter writes; events for
// one video land on one worker, keeping its counter updates ordered.
func (s *VideoService) Watch(ctx context.Context, videoID, viewerID string) (*ports.WatchResult, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, video.OwnerID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	result := &ports.WatchResult{Video: *video}
	if owner != nil {
		result.Owner = owner.Sanitize()
	}

	if count, err := s.likes.CountForVideo(ctx, videoID); err == nil {
		result.LikesCount = count
	}
	if viewerID != "" {
		if like, err := s.likes.Find(ctx, videoID, viewerID); err == nil && like != nil {
			result.IsLiked = true
		}
	}

	event := ports.ViewEvent{VideoID: videoID, ViewerID: viewerID}
	if s.views != nil {
		s.views.Enqueue(event)
	} else if err := s.ProcessView(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("video_id", videoID).Msg("inline view processing failed")
	}

	return result, nil
}

// ProcessView persists one view event: watch history for the viewer, and the
// view counter at most once per viewer per dedup window.
func (s *VideoService) ProcessView(ctx context.Context, event ports.ViewEvent) error {
	if event.ViewerID != "" {
		if err := s.users.AppendWatchHistory(ctx, event.ViewerID, event.VideoID); err != nil {
			return fmt.Errorf("append watch history: %w", err)
		}
	}

	if s.viewMark != nil && event.ViewerID != "" {
		seen, err := s.viewMark.IsSeen(ctx, event.VideoID, event.ViewerID)
		if err != nil {
			s.logger.Warn().Err(err).Str("video_id", event.VideoID).Msg("view dedup check failed, counting view")
		} else if seen {
			return nil
		}
	}

	if err := s.videos.IncrementViews(ctx, event.VideoID); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if s.viewMark != nil && event.ViewerID != "" {
		if err := s.viewMark.MarkSeen(ctx, event.VideoID, event.ViewerID); err != nil {
			s.logger.Warn().Err(err).Str("video_id", event.VideoID).Msg("view dedup mark failed")
		}
	}
	return nil
}

func (s *VideoService) Update(ctx context.Context, actorID, videoID string, fields ports.VideoUpdate) (*domain.Video, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireOwner(actorID, video.OwnerID); err != nil {
		return nil, err
	}
	return s.videos.Update(ctx, videoID, fields)
}

func (s *VideoService) Delete(ctx context.Context, actorID, videoID string) error {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if err := domain.RequireOwner(actorID, video.OwnerID); err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return err
	}
	s.logger.Info().Str("video_id", videoID).Str("owner_id", actorID).Msg("video deleted")
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, actorID, videoID string) (*domain.Video, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireOwner(actorID, video.OwnerID); err != nil {
		return nil, err
	}

	next := !video.IsPublished
	return s.videos.Update(ctx, videoID, ports.VideoUpdate{IsPublished: &next})
}
