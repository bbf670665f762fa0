package controller

import (
	"github.com/labstack/echo/v4"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

type HealthController interface {
	// Health serves GET /health.
	Health(c echo.Context) error
	Register(r *rpc.Router)
}
