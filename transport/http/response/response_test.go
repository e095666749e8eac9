package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"shareit/shared/failure"
	"shareit/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "failure", err: failure.NotFound("item not found"), wantCode: http.StatusNotFound, wantBody: `{"error":"item not found"}`},
		{name: "conflict", err: failure.Conflict("email already exists"), wantCode: http.StatusConflict, wantBody: `{"error":"email already exists"}`},
		{name: "plain error", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantBody: `{"error":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, []map[string]any{{"id": 1, "name": "Drill"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Drill"}]`, rec.Body.String())
}

func TestCannedResponses(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		wantCode int
		wantBody string
	}{
		{name: "limit exceeded", write: response.WithRequestLimitExceeded, wantCode: http.StatusTooManyRequests, wantBody: `{"message":"REQUEST LIMIT EXCEEDED"}`},
		{name: "preparing shutdown", write: response.WithPreparingShutdown, wantCode: http.StatusServiceUnavailable, wantBody: `{"message":"SERVER PREPARING TO SHUT DOWN"}`},
		{name: "unhealthy", write: response.WithUnhealthy, wantCode: http.StatusServiceUnavailable, wantBody: `{"message":"SERVER UNHEALTHY"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			tt.write(rec)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
