package handlers

import (
	"errors"
	"net/http"

	"github.com/confessit/backend/internal/models"
	"github.com/confessit/backend/internal/repositories"
	"github.com/confessit/backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ConfessionHandler handles HTTP requests related to confessions
type ConfessionHandler struct {
	confessions *service.ConfessionService
}

// NewConfessionHandler creates a new ConfessionHandler
func NewConfessionHandler(confessions *service.ConfessionService) *ConfessionHandler {
	return &ConfessionHandler{confessions: confessions}
}

// RegisterConfessionRoutes registers confession-related routes. The extra
// middleware is applied to the vote and comment routes only.
func (h *ConfessionHandler) RegisterConfessionRoutes(e *echo.Echo, writeLimit ...echo.MiddlewareFunc) {
	e.POST("/add_confession", h.AddConfession)
	e.GET("/get_confessions", h.GetConfessions)
	e.POST("/like/:id", h.LikeConfession, writeLimit...)
	e.POST("/dislike/:id", h.DislikeConfession, writeLimit...)
	e.DELETE("/delete/:id", h.DeleteConfession)
	e.POST("/add_comment/:id", h.AddComment, writeLimit...)
	e.GET("/get_comments/:id", h.GetComments)
}

// AddConfession submits a new confession
func (h *ConfessionHandler) AddConfession(c echo.Context) error {
	var req models.CreateConfessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	_, err := h.confessions.Submit(c.Request().Context(), req, c.RealIP())
	if err != nil {
		var rl *service.RateLimitError
		if errors.As(err, &rl) {
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "You are posting too fast",
				"retry_after": rl.RetryAfter,
			})
		}
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Confession added"})
}

// GetConfessions lists all confessions sorted by likes descending
func (h *ConfessionHandler) GetConfessions(c echo.Context) error {
	summaries, err := h.confessions.List(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// LikeConfession records a like from the client's IP
func (h *ConfessionHandler) LikeConfession(c echo.Context) error {
	err := h.confessions.Vote(c.Request().Context(), c.Param("id"), repositories.VoteLike, c.RealIP())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Liked"})
}

// DislikeConfession records a dislike from the client's IP
func (h *ConfessionHandler) DislikeConfession(c echo.Context) error {
	err := h.confessions.Vote(c.Request().Context(), c.Param("id"), repositories.VoteDislike, c.RealIP())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Disliked"})
}

// DeleteConfession removes a confession, admin key required
func (h *ConfessionHandler) DeleteConfession(c echo.Context) error {
	err := h.confessions.Delete(c.Request().Context(), c.Param("id"), c.QueryParam("key"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
}

// AddComment appends a comment to a confession
func (h *ConfessionHandler) AddComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	err := h.confessions.AddComment(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Comment added"})
}

// GetComments lists a confession's comments by creation time ascending
func (h *ConfessionHandler) GetComments(c echo.Context) error {
	comments, err := h.confessions.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// serviceError translates the service error taxonomy into HTTP errors.
// Unknown errors become a 500 with the error text as diagnostic.
func serviceError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrModeration),
		errors.Is(err, service.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAlreadyVoted):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
