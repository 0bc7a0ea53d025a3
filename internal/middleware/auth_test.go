package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodsin/internal/config"
	"goodsin/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var jwtCfg = config.JWTConfig{Secret: "test-secret", Issuer: "goodsin-test"}

func signToken(t *testing.T, claims *middleware.Claims) string {
	t.Helper()
	claims.Issuer = jwtCfg.Issuer
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtCfg.Secret))
	require.NoError(t, err)
	return signed
}

func scopeEchoRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Auth(jwtCfg))
	r.GET("/test", func(c *gin.Context) {
		scope, err := middleware.GetScope(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": scope.UserID, "workspace_id": scope.WorkspaceID})
	})
	return r
}

func TestAuth_ValidUserToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, &middleware.Claims{UserID: userID.String()})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	scopeEchoRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, userID.String(), resp["user_id"])
	assert.Nil(t, resp["workspace_id"])
}

func TestAuth_WorkspaceTokenWinsOverUserClaim(t *testing.T) {
	userID := uuid.New()
	workspaceID := uuid.New()
	token := signToken(t, &middleware.Claims{UserID: userID.String(), WorkspaceID: workspaceID.String()})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	scopeEchoRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, workspaceID.String(), resp["workspace_id"])
	assert.Nil(t, resp["user_id"])
}

func TestAuth_MissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	scopeEchoRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	claims := &middleware.Claims{UserID: uuid.New().String()}
	claims.Issuer = jwtCfg.Issuer
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+signed)
	scopeEchoRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	claims := &middleware.Claims{UserID: uuid.New().String()}
	claims.Issuer = jwtCfg.Issuer
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtCfg.Secret))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+signed)
	scopeEchoRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_TokenWithoutScope(t *testing.T) {
	token := signToken(t, &middleware.Claims{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	scopeEchoRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
