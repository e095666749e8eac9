package middleware

import (
	"net"
	"net/http"
	"shareit/shared"
	"shareit/shared/constant"
	"shareit/transport/http/response"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	clientKindUser    = "user"
	clientKindAddress = "ip"
)

// RateLimit counts requests per client in fixed windows. The client is the acting user when the
// identity header carries a valid id and the remote address otherwise. Requests pass untouched
// while the counter store is unreachable.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limits := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		if !limits.Enable {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := a.rateLimitKey(r)

			count, err := a.cache.Increment(r.Context(), key, limits.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter skipped")

				next.ServeHTTP(w, r)

				return
			}

			used := int(count)

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limits.MaxRequests-used)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			if used > limits.MaxRequests {
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) rateLimitKey(r *http.Request) string {
	if userID, ok := shared.ParseID(r.Header.Get(a.config.App.HeaderUserID)); ok {
		return shared.BuildCacheKey(cacheKeyRateLimit, clientKindUser, userID)
	}

	return shared.BuildCacheKey(cacheKeyRateLimit, clientKindAddress, clientIP(r))
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return "unknown"
}

// clientIP strips the port from RemoteAddr, which chi's RealIP has already resolved from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
