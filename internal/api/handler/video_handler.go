package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tubeworks/media-api/internal/api/metrics"
	"github.com/tubeworks/media-api/internal/core/ports"
)

// VideoHandler handles HTTP requests for video operations.
type VideoHandler struct {
	service ports.VideoService
}

func NewVideoHandler(service ports.VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

// Publish creates a new video owned by the caller.
//
// @Summary      Publish a video
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        body  body      publishVideoRequest  true  "Video details (media URLs from the upload service)"
// @Success      201   {object}  videoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/videos/publish [post]
func (h *VideoHandler) Publish(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req publishVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	video, err := h.service.Publish(c.Request().Context(), ports.PublishVideoInput{
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		VideoFile:   req.VideoFile,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
	})
	if err != nil {
		return err
	}

	metrics.VideosPublishedTotal.Inc()
	return c.JSON(http.StatusCreated, toVideoResponse(*video))
}

// List returns published videos, newest first.
//
// @Summary      List published videos
// @Tags         videos
// @Produce      json
// @Param        page   query     int     false  "Page (default 1)"
// @Param        limit  query     int     false  "Page size (default 10)"
// @Param        query  query     string  false  "Title/description filter"
// @Success      200    {object}  videoListResponse
// @Router       /api/videos [get]
func (h *VideoHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	videos, err := h.service.List(c.Request().Context(), ports.VideoFilter{
		Query: c.QueryParam("query"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}

	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, toVideoResponse(v))
	}
	return c.JSON(http.StatusOK, videoListResponse{Videos: out, Page: page, Limit: limit})
}

// Watch returns the video detail view and records the view. Anonymous
// viewers get the public view without history or like state.
//
// @Summary      Watch a video
// @Tags         videos
// @Produce      json
// @Param        id  path      string  true  "Video ID"
// @Success      200  {object}  watchResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/videos/watch/{id} [get]
func (h *VideoHandler) Watch(c echo.Context) error {
	viewerID := ""
	if user := OptionalUser(c); user != nil {
		viewerID = user.ID
	}

	result, err := h.service.Watch(c.Request().Context(), c.Param("id"), viewerID)
	if err != nil {
		return err
	}

	resp := watchResponse{
		Video:      toVideoResponse(result.Video),
		LikesCount: result.LikesCount,
		IsLiked:    result.IsLiked,
	}
	if result.Owner.ID != "" {
		owner := result.Owner
		resp.Owner = toUserResponse(&owner)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update patches a video's mutable fields. Owner only.
//
// @Summary      Update a video
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Video ID"
// @Param        body  body      updateVideoRequest  true  "Fields to update"
// @Success      200   {object}  videoResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/videos/{id} [patch]
func (h *VideoHandler) Update(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req updateVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	video, err := h.service.Update(c.Request().Context(), user.ID, c.Param("id"), ports.VideoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVideoResponse(*video))
}

// Delete removes a video. Owner only.
//
// @Summary      Delete a video
// @Tags         videos
// @Produce      json
// @Param        id  path      string  true  "Video ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/videos/{id} [delete]
func (h *VideoHandler) Delete(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "video deleted"})
}

// TogglePublish flips the publish flag. Owner only.
//
// @Summary      Toggle publish status
// @Tags         videos
// @Produce      json
// @Param        id  path      string  true  "Video ID"
// @Success      200  {object}  videoResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/videos/{id}/toggle-publish [patch]
func (h *VideoHandler) TogglePublish(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	video, err := h.service.TogglePublish(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVideoResponse(*video))
}
