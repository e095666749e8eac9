package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"shareit/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("validation failed")), wantCode: http.StatusBadRequest, wantMessage: "validation failed"},
		{name: "bad request from string", err: failure.BadRequestFromString("invalid date"), wantCode: http.StatusBadRequest, wantMessage: "invalid date"},
		{name: "invalid request", err: failure.InvalidRequest("unknown state: %s", "SOON"), wantCode: http.StatusBadRequest, wantMessage: "unknown state: SOON"},
		{name: "not found", err: failure.NotFound("item not found"), wantCode: http.StatusNotFound, wantMessage: "item not found"},
		{name: "conflict", err: failure.Conflict("email already exists"), wantCode: http.StatusConflict, wantMessage: "email already exists"},
		{name: "forbidden", err: failure.Forbidden("not the owner"), wantCode: http.StatusForbidden, wantMessage: "not the owner"},
		{name: "missing user header", err: failure.MissingUserHeader, wantCode: http.StatusBadRequest, wantMessage: "acting user header is required"},
		{name: "invalid id param", err: failure.InvalidIDParam, wantCode: http.StatusBadRequest, wantMessage: "id must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure

			require.ErrorAs(t, tt.err, &fail)
			assert.Equal(t, tt.wantCode, fail.Code)
			assert.Equal(t, tt.wantMessage, tt.err.Error())
		})
	}
}

func TestBadRequest_Nil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "failure", err: failure.NotFound("user not found"), want: http.StatusNotFound},
		{name: "wrapped failure", err: fmt.Errorf("get booking: %w", failure.Forbidden("not yours")), want: http.StatusForbidden},
		{name: "plain error", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}
