package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tubeworks/media-api/internal/core/ports"
)

// EngagementHandler handles likes and comments.
type EngagementHandler struct {
	service ports.EngagementService
}

func NewEngagementHandler(service ports.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// ToggleLike likes or unlikes a video for the caller.
//
// @Summary      Toggle a like
// @Tags         engagement
// @Produce      json
// @Param        id  path      string  true  "Video ID"
// @Success      200  {object}  likeResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/likes/toggle/v/{id} [post]
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	videoID := c.Param("id")
	liked, err := h.service.ToggleLike(c.Request().Context(), videoID, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{VideoID: videoID, Liked: liked})
}

// AddComment posts a comment on a video.
//
// @Summary      Add a comment
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Video ID"
// @Param        body  body      addCommentRequest true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/comments/v/{id} [post]
func (h *EngagementHandler) AddComment(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.AddComment(c.Request().Context(), c.Param("id"), user.ID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(*comment))
}

// ListComments returns a video's comments, newest first.
//
// @Summary      List comments
// @Tags         engagement
// @Produce      json
// @Param        id     path      string  true   "Video ID"
// @Param        page   query     int     false  "Page (default 1)"
// @Param        limit  query     int     false  "Page size (default 20)"
// @Success      200    {object}  commentListResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/comments/v/{id} [get]
func (h *EngagementHandler) ListComments(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	comments, err := h.service.ListComments(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return err
	}

	out := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResponse(cm))
	}
	return c.JSON(http.StatusOK, commentListResponse{Comments: out, Page: page, Limit: limit})
}

// DeleteComment removes the caller's own comment.
//
// @Summary      Delete a comment
// @Tags         engagement
// @Produce      json
// @Param        id  path      string  true  "Comment ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/comments/{id} [delete]
func (h *EngagementHandler) DeleteComment(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteComment(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "comment deleted"})
}
