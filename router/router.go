package router

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/middleware"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
)

// BodyLimit caps /trpc request bodies.
const BodyLimit = "1M"

type Options struct {
	Log          *zap.Logger
	Identity     *auth.ContextFactory
	RateLimitRPS float64
	StaticDir    string // empty disables the landing page
	Metrics      http.Handler
}

func New(
	e *echo.Echo,
	procs *rpc.Router,
	authCtrl interface {
		DevLogin(echo.Context) error
		DevLogout(echo.Context) error
		WhoAmI(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
	opt Options,
) *echo.Echo {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Identity(opt.Identity))

	e.GET("/health", healthCtrl.Health)
	if opt.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opt.Metrics))
	}

	a := e.Group("/auth")
	a.GET("/whoami", authCtrl.WhoAmI)
	a.GET("/devlogin", authCtrl.DevLogin)
	a.POST("/devlogout", authCtrl.DevLogout)

	api := e.Group("/trpc",
		echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}),
		middleware.RateLimit(opt.RateLimitRPS),
		echoMiddleware.BodyLimit(BodyLimit),
	)
	procs.Mount(api, middleware.IdentityFrom)

	if opt.StaticDir != "" {
		e.Static("/static", opt.StaticDir)
		e.File("/", filepath.Join(opt.StaticDir, "index.html"))
	}
	return e
}
