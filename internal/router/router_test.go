package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/go-group-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/group"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/plan"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/recommendation"
	"github.com/FACorreiaa/go-group-trip-planner/internal/api/user"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Services are nil: every request below is answered before a service is reached.
func testRouter(auth func(http.Handler) http.Handler) http.Handler {
	return SetupRouter(&Config{
		UserHandler:            user.NewHandler(nil, discard),
		GroupHandler:           group.NewHandler(nil, discard),
		PlanHandler:            plan.NewHandler(nil, discard),
		RecommendationHandler:  recommendation.NewHandler(nil, discard),
		AuthenticateMiddleware: auth,
		RequestTimeout:         time.Minute,
		Logger:                 discard,
	})
}

func TestSetupRouter_Public(t *testing.T) {
	h := testRouter(nil)

	t.Run("ping", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "pong", rr.Body.String())
	})

	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("request id echoed in errors", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/groups/not-a-uuid/traits", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"request_id"`)
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("routes are mounted", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{http.MethodPost, "/api/v1/groups/bad/members"},
			{http.MethodPost, "/api/v1/groups/bad/process"},
			{http.MethodGet, "/api/v1/groups/bad/recommendations"},
			{http.MethodPost, "/api/v1/groups/bad/plan"},
			{http.MethodGet, "/api/v1/groups/bad/plans"},
			{http.MethodGet, "/api/v1/users/info"},
		} {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code, "%s %s", tc.method, tc.path)
		}
	})
}

func TestSetupRouter_Authenticated(t *testing.T) {
	secret := []byte("test-secret")
	h := testRouter(appMiddleware.Authenticate(secret, "", discard))

	t.Run("health stays public", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/groups/bad/traits", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, appMiddleware.Claims{
			UserID: "u-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := token.SignedString(secret)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/bad/traits", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
