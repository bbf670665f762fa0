package controllerImp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/middleware"
)

func newServer(t *testing.T, mode auth.Mode) *echo.Echo {
	t.Helper()
	f, err := auth.NewContextFactory(mode, nil, nil)
	require.NoError(t, err)
	h := NewAuthController(mode)
	e := echo.New()
	e.Use(middleware.Identity(f))
	e.GET("/auth/devlogin", h.DevLogin)
	e.GET("/auth/devlogout", h.DevLogout)
	e.GET("/auth/whoami", h.WhoAmI)
	return e
}

func TestDevLoginRoundTrip(t *testing.T) {
	e := newServer(t, auth.ModeDev)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/devlogin?uid=farmer-9", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.DevCookie, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"userId":"farmer-9","isAuthenticated":true}`, rec.Body.String())
}

func TestDevLoginDisabledOutsideDevMode(t *testing.T) {
	e := newServer(t, auth.ModeNone)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/devlogin?uid=x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/whoami", nil))
	assert.JSONEq(t, `{"isAuthenticated":false}`, rec.Body.String())
}
