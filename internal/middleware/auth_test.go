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

	"fieldops/internal/authz"
)

func signToken(t *testing.T, userID, roleID int, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JWTKey)
	require.NoError(t, err)
	return token
}

func newTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	for _, mw := range extra {
		r.Use(mw)
	}
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id")})
	})
	r.POST("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"public": true})
	})
	return r
}

func doRequest(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r := newTestRouter()
	token := signToken(t, 9, authz.RoleSalesRep, time.Hour)
	w := doRequest(r, http.MethodGet, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/protected", "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized,
		doRequest(r, http.MethodGet, "/protected", "Basic dXNlcjpwYXNz").Code)

	expired := signToken(t, 9, authz.RoleSalesRep, -time.Hour)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/protected", "Bearer "+expired).Code)
}

func TestAuthMiddlewareSkipsPublicPaths(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/login", "").Code)
}

func TestAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	// путь websocket-апгрейда: токен в query вместо заголовка
	r := newTestRouter()
	token := signToken(t, 9, authz.RoleSalesRep, time.Hour)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/protected?token="+token, "").Code)
}

func TestReadOnlyGuard(t *testing.T) {
	r := newTestRouter(ReadOnlyGuard())
	auditToken := signToken(t, 4, authz.RoleAudit, time.Hour)
	repToken := signToken(t, 9, authz.RoleSalesRep, time.Hour)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/protected", "Bearer "+auditToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodPost, "/protected", "Bearer "+auditToken).Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/protected", "Bearer "+repToken).Code)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/admin", RequireRoles(authz.RoleAdmin, authz.RoleHR), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hrToken := signToken(t, 1, authz.RoleHR, time.Hour)
	repToken := signToken(t, 9, authz.RoleSalesRep, time.Hour)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/admin", "Bearer "+hrToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/admin", "Bearer "+repToken).Code)
}
