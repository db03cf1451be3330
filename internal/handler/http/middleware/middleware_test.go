package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shinelab/detailing-ops/internal/domain/user"
	"github.com/shinelab/detailing-ops/internal/pkg/jwt"
	"github.com/shinelab/detailing-ops/internal/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func newProtectedRouter(jwtService jwt.Service, permission user.Permission) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
	r.Use(AuthRequired)
	r.With(RequirePermission(permission)).Get("/protected", okHandler)
	return r
}

func request(t *testing.T, h http.Handler, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

// Test AuthRequired accepts access tokens only and RequirePermission checks the role
func TestAuthRequiredAndPermission(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-test-secret", "1h", "24h")
	h := newProtectedRouter(jwtService, user.PermissionSettingsManage)

	admin, _, err := jwtService.GenerateAccessToken("u1", "admin@example.com", user.RoleAdmin)
	require.NoError(t, err)
	manager, _, err := jwtService.GenerateAccessToken("u2", "manager@example.com", user.RoleManager)
	require.NoError(t, err)
	refresh, _, err := jwtService.GenerateRefreshToken("u1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, request(t, h, admin))
	assert.Equal(t, http.StatusForbidden, request(t, h, manager))
	assert.Equal(t, http.StatusUnauthorized, request(t, h, refresh))
	assert.Equal(t, http.StatusUnauthorized, request(t, h, ""))
	assert.Equal(t, http.StatusUnauthorized, request(t, h, "not-a-token"))
}

// Test Metrics labels requests with the route pattern
func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/employees/{id}", okHandler)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/employees/{id}", "204")))
}
