package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth/controller"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/middleware"
)

type authCtrl struct{ mode auth.Mode }

func NewAuthController(mode auth.Mode) controller.AuthController { return &authCtrl{mode: mode} }

// DevLogin sets the dev identity cookie. Only available when AUTH_MODE=dev.
func (h *authCtrl) DevLogin(c echo.Context) error {
	if h.mode != auth.ModeDev {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "dev login disabled"})
	}
	uid := strings.TrimSpace(c.QueryParam("uid"))
	if uid == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "uid is required"})
	}
	c.SetCookie(&http.Cookie{Name: auth.DevCookie, Value: uid, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return c.JSON(http.StatusOK, auth.Authenticated(uid))
}

func (h *authCtrl) DevLogout(c echo.Context) error {
	if h.mode != auth.ModeDev {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "dev login disabled"})
	}
	c.SetCookie(&http.Cookie{Name: auth.DevCookie, Value: "", Path: "/", MaxAge: -1})
	return c.NoContent(http.StatusNoContent)
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.IdentityFrom(c))
}
