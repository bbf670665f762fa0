package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/health/controller"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

type HealthCtrl struct {
	db    *gorm.DB
	env   string
	start time.Time
	now   func() time.Time
}

func NewHealthCtrl(db *gorm.DB, env string) *HealthCtrl {
	return &HealthCtrl{db: db, env: env, start: time.Now(), now: time.Now}
}

var _ controller.HealthController = (*HealthCtrl)(nil)

type Check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

type Report struct {
	Status      string           `json:"status"` // ok|degraded
	Timestamp   time.Time        `json:"timestamp"`
	Environment string           `json:"environment"`
	UptimeSec   int              `json:"uptimeSec"`
	Checks      map[string]Check `json:"checks"`
}

type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthCtrl) Register(r *rpc.Router) {
	r.Group("health").Query("check", "", rpc.NoInput(h.Check))
}

// Check is the liveness procedure; it never touches dependencies.
func (h *HealthCtrl) Check(context.Context, auth.Context) (*Status, error) {
	return &Status{Status: "ok", Timestamp: h.now().UTC()}, nil
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.pingDB(ctx)
	rep := Report{
		Status:      "ok",
		Timestamp:   h.now().UTC(),
		Environment: h.env,
		UptimeSec:   int(h.now().Sub(h.start).Seconds()),
		Checks:      map[string]Check{"database": db},
	}
	status := http.StatusOK
	if !db.OK {
		rep.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, rep)
}

func (h *HealthCtrl) pingDB(ctx context.Context) Check {
	if h.db == nil {
		return Check{Err: "database not configured"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return Check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return Check{Err: "ping: " + err.Error()}
	}
	return Check{OK: true}
}
