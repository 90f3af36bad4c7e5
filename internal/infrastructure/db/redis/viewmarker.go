package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultViewTTL = 24 * time.Hour

// ViewMarker provides unique-view detection backed by Redis.
// Key format: view:<video_id>:<viewer_id>
type ViewMarker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewMarker creates a ViewMarker wrapping the given Redis client. A
// non-positive ttl falls back to defaultViewTTL.
func NewViewMarker(client *redis.Client, ttl time.Duration) *ViewMarker {
	if ttl <= 0 {
		ttl = defaultViewTTL
	}
	return &ViewMarker{client: client, ttl: ttl}
}

// IsSeen reports whether this viewer already counted a view for this video
// within the TTL window.
func (m *ViewMarker) IsSeen(ctx context.Context, videoID, viewerID string) (bool, error) {
	n, err := m.client.Exists(ctx, m.key(videoID, viewerID)).Result()
	if err != nil {
		return false, fmt.Errorf("view marker check: %w", err)
	}
	return n > 0, nil
}

// MarkSeen records the view (expires after the TTL window).
func (m *ViewMarker) MarkSeen(ctx context.Context, videoID, viewerID string) error {
	return m.client.Set(ctx, m.key(videoID, viewerID), "1", m.ttl).Err()
}

func (m *ViewMarker) key(videoID, viewerID string) string {
	return fmt.Sprintf("view:%s:%s", videoID, viewerID)
}
