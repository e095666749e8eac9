package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	MissingUserHeader = &Failure{Code: http.StatusBadRequest, Message: "acting user header is required"}
	InvalidUserHeader = &Failure{Code: http.StatusBadRequest, Message: "acting user header must be a positive number"}
	InvalidFromParam  = &Failure{Code: http.StatusBadRequest, Message: "from must be greater than or equal to 0"}
	InvalidSizeParam  = &Failure{Code: http.StatusBadRequest, Message: "size must be greater than 0"}
	InvalidIDParam    = &Failure{Code: http.StatusBadRequest, Message: "id must be a positive number"}
)

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// InvalidRequest is a domain rule violation. It renders as 400.
func InvalidRequest(format string, args ...any) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(msg string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: msg,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// Forbidden is an authenticated user acting on something that is not theirs.
func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
