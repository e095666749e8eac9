package middleware

import (
	"context"
	"net/http"
	"shareit/shared"
	"shareit/shared/constant"
	"shareit/shared/failure"
	"shareit/transport/http/response"
)

// Identity reads the acting user from the configured header. The id is trusted once it parses
// as a positive number; whether the user exists is decided by the services.
func (a *appMiddleware) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := r.Header.Get(a.config.App.HeaderUserID)
		if value == "" {
			response.WithError(w, failure.MissingUserHeader)

			return
		}

		userID, ok := shared.ParseID(value)
		if !ok {
			response.WithError(w, failure.InvalidUserHeader)

			return
		}

		ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
