package domain

import (
	"errors"
	"time"
)

var ErrVideoNotFound = errors.New("video not found")
var ErrInvalidInput = errors.New("invalid input")
var ErrCommentNotFound = errors.New("comment not found")

// Video is an uploaded media item owned by exactly one user.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"video_file"` // storage URL
	Thumbnail   string    `json:"thumbnail"`  // storage URL
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Like records one user liking one video. At most one per (user, video) pair.
type Like struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	LikedBy   string    `json:"liked_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a user comment on a video, owned by its author.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
