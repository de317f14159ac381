package ginserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/app/dto"
	reviewsapp "pethost/internal/app/handlers/reviews"
)

func moderationRequestAs(t *testing.T, router *gin.Engine, body string, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/r-1/moderation", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	token, err := IssueToken(testSecret, "pethost-test", "mod-1", time.Hour, roles...)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReviewHandler_ModerateRequiresRole(t *testing.T) {
	cmds := &mockCommandBus{}
	router := setupRouter(cmds, &mockQueryBus{})

	w := moderationRequestAs(t, router, `{"hidden":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, cmds.received)

	w = moderationRequestAs(t, router, `{"hidden":true}`, "guest")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, cmds.received)
}

func TestReviewHandler_ModerateDispatches(t *testing.T) {
	cmds := &mockCommandBus{result: &dto.Review{ID: "r-1", Hidden: true}}
	router := setupRouter(cmds, &mockQueryBus{})

	w := moderationRequestAs(t, router, `{"hidden":true}`, "Moderator")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, cmds.received, 1)
	cmd, ok := cmds.received[0].(reviewsapp.ModerateReviewCommand)
	require.True(t, ok)
	assert.Equal(t, "mod-1", cmd.ActorID)
	assert.Equal(t, "r-1", cmd.ReviewID)
	assert.True(t, cmd.Hidden)
	assert.True(t, cmd.Moderator)

	var resp dto.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Hidden)
}

func TestReviewHandler_ModerateNeedsHiddenFlag(t *testing.T) {
	cmds := &mockCommandBus{}
	router := setupRouter(cmds, &mockQueryBus{})

	w := moderationRequestAs(t, router, `{}`, RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, cmds.received)
}
