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

	"github.com/barberdesk/booking-api/internal/config"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRouter(cfg *config.Config, ownerOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := []gin.HandlerFunc{AuthMiddleware(cfg)}
	if ownerOnly {
		handlers = append(handlers, RequireOwner())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet(ContextUserID),
			"role":    c.MustGet(ContextUserRole),
		})
	})

	r.GET("/protected", handlers...)
	return r
}

func authReq(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}

	t.Run("MissingHeader", func(t *testing.T) {
		w := authReq(authRouter(cfg, false), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		w := authReq(authRouter(cfg, false), "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{
			"sub": 1, "role": RoleClient, "exp": time.Now().Add(time.Hour).Unix(),
		})
		w := authReq(authRouter(cfg, false), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub": 1, "role": RoleClient, "exp": time.Now().Add(-time.Hour).Unix(),
		})
		w := authReq(authRouter(cfg, false), "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ValidClientToken", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub": 42, "role": RoleClient, "exp": time.Now().Add(time.Hour).Unix(),
		})
		w := authReq(authRouter(cfg, false), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"client"`)
	})

	t.Run("ClientBlockedFromOwnerRoute", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub": 42, "role": RoleClient, "exp": time.Now().Add(time.Hour).Unix(),
		})
		w := authReq(authRouter(cfg, true), "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("OwnerWithoutShopClaimBlocked", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub": 1, "role": RoleOwner, "exp": time.Now().Add(time.Hour).Unix(),
		})
		w := authReq(authRouter(cfg, true), "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("OwnerPassesOwnerRoute", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
			"sub": 1, "role": RoleOwner, "barbershopId": 3,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		w := authReq(authRouter(cfg, true), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
