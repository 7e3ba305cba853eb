package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

// RateLimit caps requests per client IP over window. Rejected requests get
// a 429 envelope. A non-positive limit disables the middleware.
func RateLimit(requests int, window time.Duration) echo.MiddlewareFunc {
	if requests <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echo.WrapMiddleware(httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(tooManyRequests),
	))
}

func tooManyRequests(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":     false,
		"messageCode": domain.CodeTooManyRequests,
	})
}
