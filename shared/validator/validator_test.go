package validator_test

import (
	"net/http"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"shareit/shared/validator"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	Name  string `json:"name"  validate:"required,notblank,max=16"`
	Email string `json:"email" validate:"required,email"`
}

type window struct {
	Start string `json:"start" validate:"required,datetime_local"`
	End   string `json:"end"   validate:"required,datetime_local"`
}

type listing struct {
	Available *bool  `json:"available" validate:"required"`
	RequestID *int64 `json:"requestId,omitempty" validate:"omitempty,gt=0"`
	Note      string `validate:"omitempty,oneof=new used"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "valid body", body: `{"name":"Alice","email":"alice@mail.com"}`},
		{name: "missing name", body: `{"email":"alice@mail.com"}`, message: "name is required"},
		{name: "blank name", body: `{"name":"   ","email":"alice@mail.com"}`, message: "name must not be blank"},
		{name: "long name", body: `{"name":"` + strings.Repeat("a", 17) + `","email":"alice@mail.com"}`, message: "name must be less than or equal to 16"},
		{name: "bad email", body: `{"name":"Alice","email":"alice"}`, message: "email must be a valid email address"},
		{name: "not json", body: `{"name":`, message: "failed to decode request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := member{}

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, "Alice", data.Name)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateStruct(t *testing.T) {
	yes := true
	zero := int64(0)

	tests := []struct {
		name    string
		data    any
		message string
	}{
		{name: "window", data: &window{Start: "2030-05-06T07:08:09", End: "2030-05-07T07:08:09"}},
		{name: "window with zone", data: &window{Start: "2030-05-06T07:08:09Z", End: "2030-05-07T07:08:09+07:00"}},
		{name: "window not a date", data: &window{Start: "tomorrow", End: "2030-05-07T07:08:09"}, message: "start must be a date time like 2006-01-02T15:04:05"},
		{name: "window missing end", data: &window{Start: "2030-05-06T07:08:09"}, message: "end is required"},
		{name: "listing", data: &listing{Available: &yes}},
		{name: "listing without availability", data: &listing{}, message: "available is required"},
		{name: "listing with zero request", data: &listing{Available: &yes, RequestID: &zero}, message: "requestId must be greater than 0"},
		{name: "untagged field keeps its name", data: &listing{Available: &yes, Note: "broken"}, message: "Note must be one of new used"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error

			switch data := tt.data.(type) {
			case *window:
				err = validator.ValidateStruct(data)
			case *listing:
				err = validator.ValidateStruct(data)
			}

			if tt.message == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestParseDateTime(t *testing.T) {
	original := timezone.GetLocation().String()
	defer timezone.SetLocation(original)

	timezone.SetLocation("Asia/Jakarta")

	local, err := validator.ParseDateTime("2030-05-06T07:08:09")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", local.Location().String())
	assert.Equal(t, 7, local.Hour())

	zoned, err := validator.ParseDateTime("2030-05-06T07:08:09Z")
	require.NoError(t, err)
	assert.True(t, zoned.Equal(time.Date(2030, 5, 6, 7, 8, 9, 0, time.UTC)))

	_, err = validator.ParseDateTime("yesterday")
	assert.Error(t, err)
}
