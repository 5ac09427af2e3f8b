package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"job-tracker/internal/config"
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/delivery/http/routes"
	"job-tracker/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9000")
	require.NoError(t, err)
	assert.Equal(t, ":9000", addr)

	_, err = ListenAddr("  ")
	assert.Error(t, err)
}

func TestNew_ProtectedRoutesRequireToken(t *testing.T) {
	cfg := config.Config{App: config.AppConfig{AppName: "test", MaxUploadBytes: 1 << 20}}
	jwtSvc := jwt.NewHMACService(config.JWTConfig{AccessSecret: "a", RefreshSecret: "r"})

	f := New(cfg, nil)
	reg := &routes.Registry{
		Health: handler.NewHealthHandler(nil),
		Stats:  handler.NewStatsHandler(nil),
		AuthMW: middleware.NewAuthMiddleware(jwtSvc),
	}
	reg.Register(f)

	resp, err := f.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = f.Test(httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
