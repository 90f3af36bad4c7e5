package handler

import (
	"time"

	"github.com/tubeworks/media-api/internal/core/domain"
)

type publishVideoRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	VideoFile   string  `json:"video_file"  validate:"required,url"`
	Thumbnail   string  `json:"thumbnail"   validate:"required,url"`
	Duration    float64 `json:"duration"    validate:"required,gt=0"`
}

type updateVideoRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Thumbnail   *string `json:"thumbnail"   validate:"omitempty,url"`
}

type addCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type videoResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"video_file"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type watchResponse struct {
	Video      videoResponse `json:"video"`
	Owner      *userResponse `json:"owner,omitempty"`
	LikesCount int64         `json:"likes_count"`
	IsLiked    bool          `json:"is_liked"`
}

type videoListResponse struct {
	Videos []videoResponse `json:"videos"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type likeResponse struct {
	VideoID string `json:"video_id"`
	Liked   bool   `json:"liked"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type commentListResponse struct {
	Comments []commentResponse `json:"comments"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

func toVideoResponse(v domain.Video) videoResponse {
	return videoResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
	}
}

func toCommentResponse(cm domain.Comment) commentResponse {
	return commentResponse{
		ID:        cm.ID,
		VideoID:   cm.VideoID,
		OwnerID:   cm.OwnerID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
	}
}
