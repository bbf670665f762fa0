package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

// RateLimit allows rps requests per second per client IP, with bursts of
// twice that. Rejections use the procedure error shape.
func RateLimit(rps float64) echo.MiddlewareFunc {
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	store := echoMiddleware.NewRateLimiterMemoryStoreWithConfig(echoMiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return rpc.WriteError(c, procPath(c), rpc.Wrap(rpc.CodeBadRequest, "Could not identify client", err))
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return rpc.WriteError(c, procPath(c), rpc.NewError(rpc.CodeTooManyRequests, "Too many requests"))
		},
	})
}

func procPath(c echo.Context) string {
	return strings.Trim(c.Param("*"), "/")
}
