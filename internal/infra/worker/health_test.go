package worker

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) healthResponse {
	t.Helper()
	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleLiveness(t *testing.T) {
	h := NewHealthServer(":0", slog.Default())

	rec := httptest.NewRecorder()
	h.handleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeHealth(t, rec).Status)
}

func TestHandleReadiness_NotReadyByDefault(t *testing.T) {
	h := NewHealthServer(":0", slog.Default())

	rec := httptest.NewRecorder()
	h.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", decodeHealth(t, rec).Status)
}

func TestHandleReadiness_ReadyAfterSet(t *testing.T) {
	h := NewHealthServer(":0", slog.Default())
	h.SetReady(true)

	rec := httptest.NewRecorder()
	h.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
