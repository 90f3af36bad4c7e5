package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

type stubVideoRepo struct {
	mu     sync.Mutex
	seq    int
	videos map[string]*domain.Video
}

func newStubVideoRepo() *stubVideoRepo {
	return &stubVideoRepo{videos: make(map[string]*domain.Video)}
}

func (r *stubVideoRepo) Create(_ context.Context, video *domain.Video) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *video
	r.seq++
	clone.ID = fmt.Sprintf("video_%d", r.seq)
	r.videos[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubVideoRepo) FindByID(_ context.Context, id string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, domain.ErrVideoNotFound
}

func (r *stubVideoRepo) List(_ context.Context, filter ports.VideoFilter) ([]domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Video, 0, len(r.videos))
	for _, v := range r.videos {
		if filter.OnlyPublished && !v.IsPublished {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVideoRepo) Update(_ context.Context, id string, fields ports.VideoUpdate) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	if fields.Title != nil {
		v.Title = *fields.Title
	}
	if fields.Description != nil {
		v.Description = *fields.Description
	}
	if fields.Thumbnail != nil {
		v.Thumbnail = *fields.Thumbnail
	}
	if fields.IsPublished != nil {
		v.IsPublished = *fields.IsPublished
	}
	clone := *v
	return &clone, nil
}

func (r *stubVideoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return domain.ErrVideoNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *stubVideoRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return domain.ErrVideoNotFound
	}
	v.Views++
	return nil
}

type stubLikeRepo struct {
	mu    sync.Mutex
	seq   int
	likes map[string]*domain.Like
}

func newStubLikeRepo() *stubLikeRepo {
	return &stubLikeRepo{likes: make(map[string]*domain.Like)}
}

func (r *stubLikeRepo) Find(_ context.Context, videoID, userID string) (*domain.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.likes {
		if l.VideoID == videoID && l.LikedBy == userID {
			clone := *l
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubLikeRepo) Create(_ context.Context, like *domain.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *like
	r.seq++
	clone.ID = fmt.Sprintf("like_%d", r.seq)
	r.likes[clone.ID] = &clone
	return nil
}

func (r *stubLikeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, id)
	return nil
}

func (r *stubLikeRepo) CountForVideo(_ context.Context, videoID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.likes {
		if l.VideoID == videoID {
			n++
		}
	}
	return n, nil
}

// memoryViewMarker is an in-process stand-in for the Redis view marker.
type memoryViewMarker struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemoryViewMarker() *memoryViewMarker {
	return &memoryViewMarker{seen: make(map[string]bool)}
}

func (m *memoryViewMarker) IsSeen(_ context.Context, videoID, viewerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[videoID+":"+viewerID], nil
}

func (m *memoryViewMarker) MarkSeen(_ context.Context, videoID, viewerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[videoID+":"+viewerID] = true
	return nil
}

func newTestVideoService(videos *stubVideoRepo, users *stubUserRepo, likes *stubLikeRepo) *VideoService {
	return NewVideoService(videos, users, likes, newMemoryViewMarker(), zerolog.Nop())
}

func seedVideo(t *testing.T, repo *stubVideoRepo, ownerID string) *domain.Video {
	t.Helper()
	now := time.Now().UTC()
	video, err := repo.Create(context.Background(), &domain.Video{
		OwnerID:     ownerID,
		Title:       "a video",
		Description: "about things",
		VideoFile:   "https://cdn.example.com/v.mp4",
		Thumbnail:   "https://cdn.example.com/t.jpg",
		Duration:    120,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return video
}

func TestVideoService_OwnershipGuard(t *testing.T) {
	videos := newStubVideoRepo()
	users := newStubUserRepo()
	svc := newTestVideoService(videos, users, newStubLikeRepo())
	video := seedVideo(t, videos, "owner_1")

	title := "renamed"
	update := ports.VideoUpdate{Title: &title}

	// A different identity cannot mutate, delete or unpublish.
	if _, err := svc.Update(context.Background(), "intruder", video.ID, update); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("update by non-owner: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), "intruder", video.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("delete by non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.TogglePublish(context.Background(), "intruder", video.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("toggle by non-owner: expected ErrForbidden, got %v", err)
	}

	// The owner can.
	updated, err := svc.Update(context.Background(), "owner_1", video.ID, update)
	if err != nil {
		t.Fatalf("update by owner: %v", err)
	}
	if updated.Title != "renamed" {
		t.Fatalf("update did not apply: %s", updated.Title)
	}
	if err := svc.Delete(context.Background(), "owner_1", video.ID); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
}

func TestRequireOwner(t *testing.T) {
	if err := domain.RequireOwner("u1", "u1"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	for _, pair := range [][2]string{{"u1", "u2"}, {"", "u2"}, {"u1", ""}, {"", ""}} {
		if err := domain.RequireOwner(pair[0], pair[1]); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("RequireOwner(%q, %q): expected ErrForbidden, got %v", pair[0], pair[1], err)
		}
	}
}

func TestVideoService_UniqueViews(t *testing.T) {
	videos := newStubVideoRepo()
	users := newStubUserRepo()
	svc := newTestVideoService(videos, users, newStubLikeRepo())
	video := seedVideo(t, videos, "owner_1")

	viewer, err := users.Create(context.Background(), &domain.User{Username: "viewer", Email: "viewer@example.com"})
	if err != nil {
		t.Fatalf("seed viewer: %v", err)
	}
	other, err := users.Create(context.Background(), &domain.User{Username: "other", Email: "other@example.com"})
	if err != nil {
		t.Fatalf("seed other viewer: %v", err)
	}

	// Same viewer twice counts one view; a second viewer counts another.
	for i := 0; i < 2; i++ {
		if err := svc.ProcessView(context.Background(), ports.ViewEvent{VideoID: video.ID, ViewerID: viewer.ID}); err != nil {
			t.Fatalf("process view: %v", err)
		}
	}
	if err := svc.ProcessView(context.Background(), ports.ViewEvent{VideoID: video.ID, ViewerID: other.ID}); err != nil {
		t.Fatalf("process view: %v", err)
	}

	got, err := videos.FindByID(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	if got.Views != 2 {
		t.Fatalf("expected 2 views, got %d", got.Views)
	}

	// Watch history recorded once despite the repeat view.
	stored, err := users.FindByID(context.Background(), viewer.ID)
	if err != nil {
		t.Fatalf("find viewer: %v", err)
	}
	if len(stored.WatchHistory) != 1 || stored.WatchHistory[0] != video.ID {
		t.Fatalf("unexpected watch history: %v", stored.WatchHistory)
	}
}

func TestVideoService_Watch(t *testing.T) {
	videos := newStubVideoRepo()
	users := newStubUserRepo()
	likes := newStubLikeRepo()
	svc := newTestVideoService(videos, users, likes)

	owner, err := users.Create(context.Background(), &domain.User{Username: "creator", Email: "creator@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	fan, err := users.Create(context.Background(), &domain.User{Username: "fan", Email: "fan@example.com"})
	if err != nil {
		t.Fatalf("seed fan: %v", err)
	}
	video := seedVideo(t, videos, owner.ID)

	if err := likes.Create(context.Background(), &domain.Like{VideoID: video.ID, LikedBy: fan.ID}); err != nil {
		t.Fatalf("seed like: %v", err)
	}

	result, err := svc.Watch(context.Background(), video.ID, fan.ID)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if result.Video.ID != video.ID {
		t.Fatalf("wrong video: %s", result.Video.ID)
	}
	if result.Owner.PasswordHash != "" {
		t.Fatalf("watch leaked owner password hash")
	}
	if result.LikesCount != 1 || !result.IsLiked {
		t.Fatalf("unexpected like state: count=%d liked=%v", result.LikesCount, result.IsLiked)
	}

	// No queue wired: the view is persisted inline.
	got, err := videos.FindByID(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("find video: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("expected 1 view, got %d", got.Views)
	}
}
