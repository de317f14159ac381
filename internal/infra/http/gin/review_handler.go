package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	reviewsapp "pethost/internal/app/handlers/reviews"
	"pethost/internal/app/queries"
)

const (
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var errMissingHidden = errors.New("hidden is required")

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h ReviewHandler) ListForHost(c *gin.Context) {
	limit, err := parseIntQuery(c.Query("limit"), 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	offset, err := parseIntQuery(c.Query("offset"), 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	query := reviewsapp.ListHostReviewsQuery{HostID: c.Param("id"), Limit: limit, Offset: offset}
	result, err := queries.Ask[reviewsapp.ListHostReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type reviewRequest struct {
	Ratings dto.Ratings `json:"ratings"`
	Text    string      `json:"text"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := reviewsapp.SubmitReviewCommand{ActorID: user.ID, BookingID: c.Param("id"), Ratings: req.Ratings, Text: req.Text}
	result, err := commands.Dispatch[reviewsapp.SubmitReviewCommand, *dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) Update(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := reviewsapp.UpdateReviewCommand{ActorID: user.ID, ReviewID: c.Param("id"), Ratings: req.Ratings, Text: req.Text}
	result, err := commands.Dispatch[reviewsapp.UpdateReviewCommand, *dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type reviewResponseRequest struct {
	Text string `json:"text"`
}

func (h ReviewHandler) Respond(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req reviewResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := reviewsapp.RespondReviewCommand{ActorID: user.ID, ReviewID: c.Param("id"), Text: req.Text}
	result, err := commands.Dispatch[reviewsapp.RespondReviewCommand, *dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type moderationRequest struct {
	Hidden *bool `json:"hidden"`
}

// Moderate hides or restores a review. Moderators and admins only.
func (h ReviewHandler) Moderate(c *gin.Context) {
	user, ok := requireRole(c, RoleModerator, RoleAdmin)
	if !ok {
		return
	}
	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Hidden == nil {
		badRequest(c, errMissingHidden)
		return
	}
	cmd := reviewsapp.ModerateReviewCommand{ActorID: user.ID, ReviewID: c.Param("id"), Hidden: *req.Hidden, Moderator: true}
	result, err := commands.Dispatch[reviewsapp.ModerateReviewCommand, *dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReviewHTTP = ReviewHandler{}
