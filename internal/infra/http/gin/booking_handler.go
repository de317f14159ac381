package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	bookingapp "pethost/internal/app/handlers/booking"
	"pethost/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	HostID           string   `json:"host_id"`
	PetID            string   `json:"pet_id"`
	CheckIn          Date     `json:"check_in"`
	CheckOut         Date     `json:"check_out"`
	AddOns           []string `json:"add_ons"`
	CareInstructions string   `json:"care_instructions"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		ActorID:          user.ID,
		HostID:           req.HostID,
		PetID:            req.PetID,
		CheckIn:          req.CheckIn.Time,
		CheckOut:         req.CheckOut.Time,
		AddOns:           req.AddOns,
		CareInstructions: req.CareInstructions,
		IdempotencyKeyV:  c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) List(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
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
	var statuses []string
	for _, raw := range strings.Split(c.Query("status"), ",") {
		if s := strings.ToUpper(strings.TrimSpace(raw)); s != "" {
			statuses = append(statuses, s)
		}
	}
	query := bookingapp.ListBookingsQuery{
		ViewerID: user.ID,
		HostID:   c.Query("host_id"),
		PetID:    c.Query("pet_id"),
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	}
	result, err := queries.Ask[bookingapp.ListBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	query := bookingapp.GetBookingQuery{BookingID: c.Param("id"), ViewerID: user.ID}
	result, err := queries.Ask[bookingapp.GetBookingQuery, dto.Booking](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateBookingRequest struct {
	CheckIn          *Date   `json:"check_in"`
	CheckOut         *Date   `json:"check_out"`
	CareInstructions *string `json:"care_instructions"`
}

func (h BookingHandler) Update(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := bookingapp.UpdateBookingCommand{
		ActorID:          user.ID,
		BookingID:        c.Param("id"),
		CheckIn:          req.CheckIn.ptr(),
		CheckOut:         req.CheckOut.ptr(),
		CareInstructions: req.CareInstructions,
	}
	h.dispatch(c, cmd)
}

type respondBookingRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (h BookingHandler) Respond(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req respondBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.dispatch(c, bookingapp.RespondBookingCommand{
		ActorID:   user.ID,
		BookingID: c.Param("id"),
		Action:    strings.ToLower(strings.TrimSpace(req.Action)),
		Reason:    req.Reason,
	})
}

func (h BookingHandler) Confirm(c *gin.Context) {
	if user, ok := requireAuth(c); ok {
		h.dispatch(c, bookingapp.ConfirmBookingCommand{ActorID: user.ID, BookingID: c.Param("id")})
	}
}

func (h BookingHandler) Start(c *gin.Context) {
	if user, ok := requireAuth(c); ok {
		h.dispatch(c, bookingapp.StartBookingCommand{ActorID: user.ID, BookingID: c.Param("id")})
	}
}

func (h BookingHandler) Complete(c *gin.Context) {
	if user, ok := requireAuth(c); ok {
		h.dispatch(c, bookingapp.CompleteBookingCommand{ActorID: user.ID, BookingID: c.Param("id")})
	}
}

func (h BookingHandler) Cancel(c *gin.Context) {
	if user, ok := requireAuth(c); ok {
		h.dispatch(c, bookingapp.CancelBookingCommand{ActorID: user.ID, BookingID: c.Param("id")})
	}
}

// dispatch runs a booking command whose result is the updated booking.
func (h BookingHandler) dispatch(c *gin.Context, cmd commands.Command) {
	res, err := h.Commands.Dispatch(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	booking, ok := res.(*dto.Booking)
	if !ok {
		respondError(c, h.Logger, commands.ErrResultType)
		return
	}
	c.JSON(http.StatusOK, booking)
}

var _ BookingHTTP = BookingHandler{}
