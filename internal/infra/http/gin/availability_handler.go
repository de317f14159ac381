package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	availabilityapp "pethost/internal/app/handlers/availability"
	"pethost/internal/app/queries"
)

type AvailabilityHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

// List returns the host's blocks, plus the day calendar when from and to are given.
func (h AvailabilityHandler) List(c *gin.Context) {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		badRequest(c, err)
		return
	}
	query := availabilityapp.GetAvailabilityQuery{HostID: c.Param("id"), From: from, To: to}
	result, err := queries.Ask[availabilityapp.GetAvailabilityQuery, dto.HostAvailability](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createBlockRequest struct {
	StartDate        Date   `json:"start_date" binding:"required"`
	EndDate          Date   `json:"end_date" binding:"required"`
	Blocked          bool   `json:"is_blocked"`
	MaxPetsAvailable *int   `json:"max_pets_available"`
	CustomRateCents  *int64 `json:"custom_rate_cents"`
	Note             string `json:"note"`
}

func (h AvailabilityHandler) Create(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := availabilityapp.CreateBlockCommand{
		ActorID:          user.ID,
		HostID:           c.Param("id"),
		StartDate:        req.StartDate.Time,
		EndDate:          req.EndDate.Time,
		Blocked:          req.Blocked,
		MaxPetsAvailable: req.MaxPetsAvailable,
		CustomRateCents:  req.CustomRateCents,
		Note:             req.Note,
	}
	result, err := commands.Dispatch[availabilityapp.CreateBlockCommand, *dto.AvailabilityBlock](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AvailabilityHandler) Delete(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := availabilityapp.DeleteBlockCommand{ActorID: user.ID, HostID: c.Param("id"), BlockID: c.Param("blockId")}
	if _, err := commands.Dispatch[availabilityapp.DeleteBlockCommand, *dto.AvailabilityBlock](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
