package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shareit/config"
	"shareit/shared"
	"shareit/shared/cache/mocks"
	"shareit/shared/constant"
	"shareit/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const userHeader = "X-Sharer-User-Id"

func newConfig(limiter bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.HeaderUserID = userHeader
	cfg.App.RateLimiter.Enable = limiter
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantCode int
		wantUser int64
	}{
		{name: "missing header", wantCode: http.StatusBadRequest},
		{name: "not a number", header: "abc", wantCode: http.StatusBadRequest},
		{name: "not positive", header: "0", wantCode: http.StatusBadRequest},
		{name: "valid user", header: "42", wantCode: http.StatusOK, wantUser: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen int64

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userID, err := shared.ActingUser(r.Context())
				require.NoError(t, err)

				seen = userID

				w.WriteHeader(http.StatusOK)
			})

			mw := middleware.NewAppMiddleware(nil, newConfig(false), nil)

			req := httptest.NewRequest(http.MethodGet, "/items", nil)
			if tt.header != "" {
				req.Header.Set(userHeader, tt.header)
			}

			rec := httptest.NewRecorder()
			mw.Identity(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestRequestID(t *testing.T) {
	mw := middleware.NewAppMiddleware(nil, newConfig(false), nil)

	var fromContext any

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = r.Context().Value(constant.ContextKeyRequestID)
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constant.RequestHeaderRequestID, "abc-123")

		rec := httptest.NewRecorder()
		mw.RequestID(next).ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(constant.RequestHeaderRequestID))
		assert.Equal(t, "abc-123", fromContext)
	})

	t.Run("issues a new id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw.RequestID(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, rec.Header().Get(constant.RequestHeaderRequestID))
		assert.Equal(t, rec.Header().Get(constant.RequestHeaderRequestID), fromContext)
	})
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		remoteAddr    string
		wantKey       string
		count         int64
		err           error
		wantCode      int
		wantRemaining string
	}{
		{
			name:          "acting user within limit",
			header:        "7",
			remoteAddr:    "10.0.0.1:5555",
			wantKey:       "limiter:user:7",
			count:         1,
			wantCode:      http.StatusOK,
			wantRemaining: "1",
		},
		{
			name:          "anonymous client keyed by address",
			remoteAddr:    "10.0.0.1:5555",
			wantKey:       "limiter:ip:10.0.0.1",
			count:         2,
			wantCode:      http.StatusOK,
			wantRemaining: "0",
		},
		{
			name:          "invalid header falls back to address",
			header:        "abc",
			remoteAddr:    "10.0.0.2:80",
			wantKey:       "limiter:ip:10.0.0.2",
			count:         3,
			wantCode:      http.StatusTooManyRequests,
			wantRemaining: "0",
		},
		{
			name:       "counter store down lets the request through",
			header:     "7",
			remoteAddr: "10.0.0.1:5555",
			wantKey:    "limiter:user:7",
			err:        errors.New("connection refused"),
			wantCode:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cacheMock := mocks.NewMockRedisCache(ctrl)
			cacheMock.EXPECT().Increment(gomock.Any(), tt.wantKey, 60).Return(tt.count, tt.err)

			mw := middleware.NewAppMiddleware(nil, newConfig(true), cacheMock)

			req := httptest.NewRequest(http.MethodGet, "/items", nil)
			req.RemoteAddr = tt.remoteAddr

			if tt.header != "" {
				req.Header.Set(userHeader, tt.header)
			}

			rec := httptest.NewRecorder()
			mw.RateLimit()(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	cacheMock := mocks.NewMockRedisCache(ctrl)

	mw := middleware.NewAppMiddleware(nil, newConfig(false), cacheMock)

	rec := httptest.NewRecorder()
	mw.RateLimit()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(constant.RequestHeaderRateLimit))
}
