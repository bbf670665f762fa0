package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chisowa/Farm-Link-Zambia/database"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	authCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/auth/controllerImp"
	healthCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/health/controllerImp"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/metrics"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
	userCtrlImp "github.com/Chisowa/Farm-Link-Zambia/pkg/user/controllerImp"
	userRepoImp "github.com/Chisowa/Farm-Link-Zambia/pkg/user/repositoryImp"
	userSvcImp "github.com/Chisowa/Farm-Link-Zambia/pkg/user/serviceImp"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	m, err := metrics.New()
	require.NoError(t, err)
	procs := rpc.NewRouter(schema.MustNew(), rpc.WithObserver(m))
	health := healthCtrlImp.NewHealthCtrl(db, "test")
	health.Register(procs)
	userCtrlImp.New(userSvcImp.NewUserService(userRepoImp.NewUsers(db), userRepoImp.NewFarms(db))).Register(procs)

	f, err := auth.NewContextFactory(auth.ModeDev, nil, nil)
	require.NoError(t, err)

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>Farm-Link</h1>"), 0o644))

	return New(echo.New(), procs, authCtrlImp.NewAuthController(auth.ModeDev), health, Options{
		Identity:     f,
		RateLimitRPS: 100,
		StaticDir:    static,
		Metrics:      m.Handler(),
	})
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	e := newServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/trpc/health.check", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"result":{"data":{"status":"ok"`)
}

func TestDevIdentityReachesProcedures(t *testing.T) {
	e := newServer(t)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/auth/devlogin?uid=farmer-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/trpc/user.whoami", nil)
	req.AddCookie(cookies[0])
	rec = do(e, req)
	assert.JSONEq(t, `{"result":{"data":{"userId":"farmer-1","isAuthenticated":true}}}`, rec.Body.String())

	rec = do(e, httptest.NewRequest(http.MethodGet, "/trpc/user.getProfile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/trpc/advice.askAI", nil)
	req.Header.Set(echo.HeaderOrigin, "https://farmlink.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := do(newServer(t), req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)
}

func TestBodyLimit(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/trpc/user.createFarm", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(newServer(t), req).Code)
}

func TestMetricsAndStatic(t *testing.T) {
	e := newServer(t)
	do(e, httptest.NewRequest(http.MethodGet, "/trpc/health.check", nil))

	rec := do(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `farmlink_rpc_calls_total{code="OK",kind="query",path="health.check"} 1`)

	rec = do(e, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Farm-Link")
}
