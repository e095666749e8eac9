package response

import (
	"net/http"
	"shareit/shared/constant"
	"shareit/shared/failure"
	"shareit/shared/logger"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error is the body of every failed request.
type Error struct {
	Error string `json:"error"`
}

type Message struct {
	Message string `json:"message"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: message})
}

// WithJSON sends the payload as the response body, without an envelope.
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	write(writer, code, jsonPayload)
}

// WithError renders err as {"error": message} with the status its Failure carries, or 500.
func WithError(writer http.ResponseWriter, err error) {
	write(writer, failure.GetCode(err), Error{Error: err.Error()})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown tells load balancers to stop routing here during the grace period.
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
