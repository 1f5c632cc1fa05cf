package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Claims are the access-token claims issued by the identity provider
type Claims struct {
	UserID    int    `json:"sub"`
	Type      string `json:"type"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// Valid implements jwt.Claims
func (c *Claims) Valid() error {
	if c.ExpiresAt != 0 && time.Now().Unix() > c.ExpiresAt {
		return jwt.NewValidationError("token is expired", jwt.ValidationErrorExpired)
	}
	if c.Type != "access" {
		return jwt.NewValidationError("not an access token", jwt.ValidationErrorClaimsInvalid)
	}
	return nil
}

// AuthMiddleware validates the Bearer access token and stores the caller's
// identity in the request context
func AuthMiddleware(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(headerParts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Debug("Failed to validate access token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		role := claims.Role
		if role == "" {
			role = "citizen"
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", role)
		c.Next()
	}
}

// RequireRole checks that the authenticated caller holds the given role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("userRole")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
