package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"goodsin/internal/config"
	"goodsin/internal/domain"
)

const ContextKeyScope = "scope"

// Claims are the token claims this service consumes. Tokens are issued by
// the external identity service; we only verify the signature and extract
// the scope: a personal user id XOR a shared workspace id.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// Scope converts claims into a domain scope, enforcing the XOR rule. A
// workspace token still names the acting user in the subject; the scope keys
// on the workspace alone.
func (c *Claims) Scope() (domain.Scope, error) {
	var scope domain.Scope
	if c.WorkspaceID != "" {
		id, err := uuid.Parse(c.WorkspaceID)
		if err != nil {
			return scope, fmt.Errorf("invalid workspace_id claim: %w", err)
		}
		scope.WorkspaceID = &id
	} else if c.UserID != "" {
		id, err := uuid.Parse(c.UserID)
		if err != nil {
			return scope, fmt.Errorf("invalid user_id claim: %w", err)
		}
		scope.UserID = &id
	}
	if err := scope.Validate(); err != nil {
		return scope, err
	}
	return scope, nil
}

// Auth returns Gin middleware that validates bearer tokens and injects the
// caller's scope into the request context.
func Auth(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "missing or invalid authorization header")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(
			strings.TrimPrefix(authHeader, "Bearer "), claims,
			func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(cfg.Secret), nil
			},
			jwt.WithIssuer(cfg.Issuer),
		)
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		scope, err := claims.Scope()
		if err != nil {
			abortUnauthorized(c, "token carries no usable scope")
			return
		}

		c.Set(ContextKeyScope, scope)
		c.Next()
	}
}

// GetScope extracts the caller's scope from the Gin context.
func GetScope(c *gin.Context) (domain.Scope, error) {
	val, exists := c.Get(ContextKeyScope)
	if !exists {
		return domain.Scope{}, domain.ErrUnauthorized
	}
	return val.(domain.Scope), nil
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
	})
}
