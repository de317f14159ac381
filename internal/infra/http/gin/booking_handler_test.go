package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	availabilityapp "pethost/internal/app/handlers/availability"
	bookingapp "pethost/internal/app/handlers/booking"
	"pethost/internal/app/queries"
	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	"pethost/internal/infra/config"
	"pethost/internal/infra/obs"
)

var testSecret = []byte("test-secret")

// --- Mock command bus ---

type mockCommandBus struct {
	received []commands.Command
	result   any
	err      error
}

func (m *mockCommandBus) Dispatch(_ context.Context, cmd commands.Command) (any, error) {
	m.received = append(m.received, cmd)
	return m.result, m.err
}

// --- Mock query bus ---

type mockQueryBus struct {
	received []queries.Query
	result   any
	err      error
}

func (m *mockQueryBus) Ask(_ context.Context, q queries.Query) (any, error) {
	m.received = append(m.received, q)
	return m.result, m.err
}

func setupRouter(cmds *mockCommandBus, qs *mockQueryBus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := AuthMiddleware{Secret: testSecret, Issuer: "pethost-test"}
	return NewRouter(config.Config{}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Bookings:       BookingHandler{Commands: cmds, Queries: qs},
		Availability:   AvailabilityHandler{Commands: cmds, Queries: qs},
		Reviews:        ReviewHandler{Commands: cmds, Queries: qs},
		AuthMiddleware: auth.Handle,
	})
}

func doRequest(t *testing.T, router *gin.Engine, method, path, subject string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		token, err := IssueToken(testSecret, "pethost-test", subject, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBookingHandler_CreateBooking_Success(t *testing.T) {
	cmds := &mockCommandBus{result: &dto.Booking{ID: "b-1", Status: "PENDING_APPROVAL"}}
	router := setupRouter(cmds, &mockQueryBus{})

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings", "owner-1", map[string]any{
		"host_id":   "h-1",
		"pet_id":    "pet-1",
		"check_in":  "2025-01-05",
		"check_out": "2025-01-12T00:00:00Z",
		"add_ons":   []string{"grooming"},
	}, map[string]string{"Idempotency-Key": "req-1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, cmds.received, 1)
	cmd, ok := cmds.received[0].(bookingapp.CreateBookingCommand)
	require.True(t, ok)
	assert.Equal(t, "owner-1", cmd.ActorID)
	assert.Equal(t, "req-1", cmd.IdempotencyKeyV)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), cmd.CheckIn)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), cmd.CheckOut)

	var resp dto.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b-1", resp.ID)
}

func TestBookingHandler_CreateBooking_RequiresAuth(t *testing.T) {
	cmds := &mockCommandBus{}
	router := setupRouter(cmds, &mockQueryBus{})

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings", "", map[string]any{"host_id": "h-1"}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, cmds.received)
}

func TestBookingHandler_InvalidToken(t *testing.T) {
	router := setupRouter(&mockCommandBus{}, &mockQueryBus{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandler_CreateBooking_BadDate(t *testing.T) {
	cmds := &mockCommandBus{}
	router := setupRouter(cmds, &mockQueryBus{})

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings", "owner-1", map[string]any{
		"host_id":  "h-1",
		"check_in": "05/01/2025",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, cmds.received)
}

func TestBookingHandler_ErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"capacity", domainavailability.ErrHostAtCapacity, http.StatusConflict, "conflict"},
		{"transition", domainbooking.ErrInvalidState, http.StatusConflict, "invalid_state"},
		{"not found", domainbooking.ErrBookingNotFound, http.StatusNotFound, "not_found"},
		{"forbidden", bookingapp.ErrNotBookingHost, http.StatusForbidden, "forbidden"},
		{"validation", domainbooking.ErrCheckInInPast, http.StatusBadRequest, "validation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupRouter(&mockCommandBus{err: tc.err}, &mockQueryBus{})

			w := doRequest(t, router, http.MethodPost, "/api/v1/bookings/b-1/respond", "host-1", map[string]string{"action": "Approve"}, nil)

			assert.Equal(t, tc.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.kind, body["kind"])
		})
	}
}

func TestBookingHandler_UnexpectedErrorIsHidden(t *testing.T) {
	router := setupRouter(&mockCommandBus{err: errors.New("mongo: connection reset")}, &mockQueryBus{})

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings/b-1/cancel", "owner-1", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "mongo")
}

func TestBookingHandler_RespondLowercasesAction(t *testing.T) {
	cmds := &mockCommandBus{result: &dto.Booking{ID: "b-1", Status: "REJECTED"}}
	router := setupRouter(cmds, &mockQueryBus{})

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings/b-1/respond", "host-1", map[string]string{"action": " REJECT ", "reason": "full"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, cmds.received, 1)
	cmd := cmds.received[0].(bookingapp.RespondBookingCommand)
	assert.Equal(t, "reject", cmd.Action)
	assert.Equal(t, "b-1", cmd.BookingID)
	assert.Equal(t, "full", cmd.Reason)
}

func TestBookingHandler_ListParsesFilters(t *testing.T) {
	qs := &mockQueryBus{result: dto.BookingCollection{Items: []dto.Booking{{ID: "b-1"}}, Total: 1}}
	router := setupRouter(&mockCommandBus{}, qs)

	w := doRequest(t, router, http.MethodGet, "/api/v1/bookings?status=confirmed,%20in_progress&host_id=h-1&limit=5", "host-1", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, qs.received, 1)
	q := qs.received[0].(bookingapp.ListBookingsQuery)
	assert.Equal(t, []string{"CONFIRMED", "IN_PROGRESS"}, q.Statuses)
	assert.Equal(t, "h-1", q.HostID)
	assert.Equal(t, 5, q.Limit)

	w = doRequest(t, router, http.MethodGet, "/api/v1/bookings?limit=abc", "host-1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_UpdateKeepsOmittedFields(t *testing.T) {
	cmds := &mockCommandBus{result: &dto.Booking{ID: "b-1"}}
	router := setupRouter(cmds, &mockQueryBus{})

	w := doRequest(t, router, http.MethodPatch, "/api/v1/bookings/b-1", "owner-1", map[string]string{"care_instructions": "twice a day"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	cmd := cmds.received[0].(bookingapp.UpdateBookingCommand)
	assert.Nil(t, cmd.CheckIn)
	assert.Nil(t, cmd.CheckOut)
	require.NotNil(t, cmd.CareInstructions)
	assert.Equal(t, "twice a day", *cmd.CareInstructions)
}

func TestAvailabilityHandler_ListIsPublic(t *testing.T) {
	qs := &mockQueryBus{result: dto.HostAvailability{HostID: "h-1"}}
	router := setupRouter(&mockCommandBus{}, qs)

	w := doRequest(t, router, http.MethodGet, "/api/v1/hosts/h-1/availability?from=2025-01-01&to=2025-01-31", "", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	q := qs.received[0].(availabilityapp.GetAvailabilityQuery)
	assert.Equal(t, "h-1", q.HostID)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), q.To)
}

func TestHealth_Readyz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(config.Config{}, obs.Middleware{}, obs.HealthHandlers{Checks: map[string]obs.Check{
		"mongo": func(context.Context) error { return errors.New("down") },
	}}, Handlers{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
