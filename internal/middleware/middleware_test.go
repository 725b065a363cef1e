package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BruksfildServices01/repair-jobcards/internal/domain/jobcard"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  7,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareBuildsActor(t *testing.T) {
	r := newRouter(AuthMiddleware(secret))

	w := do(r, "Bearer "+sign(t, validClaims("technician"), secret))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"technician"}`, w.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r := newRouter(AuthMiddleware(secret))

	expired := validClaims("admin")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	cases := map[string]string{
		"missing":     "",
		"not bearer":  "Basic abc",
		"bad sig":     "Bearer " + sign(t, validClaims("admin"), "other"),
		"expired":     "Bearer " + sign(t, expired, secret),
		"bad role":    "Bearer " + sign(t, validClaims("owner"), secret),
		"garbage jwt": "Bearer not.a.jwt",
	}
	for name, header := range cases {
		w := do(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestRequireRole(t *testing.T) {
	r := newRouter(AuthMiddleware(secret), RequireRole(jobcard.RoleAdmin, jobcard.RolePricing))

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+sign(t, validClaims("pricing"), secret)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+sign(t, validClaims("receptionist"), secret)).Code)

	// sem AuthMiddleware não existe actor
	bare := newRouter(RequireRole(jobcard.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(bare, "").Code)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	core, seen := observer.New(zapcore.InfoLevel)
	r := newRouter(RequestLogger(zap.New(core)))

	w := do(r, "")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	require.Equal(t, 1, seen.FilterMessage("request").Len())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://front.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://front.local", w.Header().Get("Access-Control-Allow-Origin"))
}
