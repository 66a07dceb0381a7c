package middleware

import (
	"strings"

	"health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/jwt"
	"health-connect-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JWTAuth checks that the request has a valid JWT and adds claims to the context
func JWTAuth(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Error(errors.NewUnauthorizedError(errors.CodeAuthRequired, "Authorization header is required"))
			c.Abort()
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			log.Warn("Invalid JWT token", "error", err.Error())
			c.Error(errors.NewUnauthorizedError(errors.CodeInvalidToken, "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("userId", claims.UserID)
		c.Set("userType", claims.UserType)

		c.Next()
	}
}

// OptionalJWTAuth resolves claims when a token is present but never rejects.
// Used by endpoints that behave differently for authenticated callers, like
// symptom analysis persisting a report for known users.
func OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Next()
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwt.ValidateToken(token)
		if err == nil {
			c.Set("claims", claims)
			c.Set("userId", claims.UserID)
			c.Set("userType", claims.UserType)
		}

		c.Next()
	}
}

// RequireUserType returns a middleware that requires the user to have one of
// the given profile types (patient, doctor)
func RequireUserType(types ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := c.Get("claims")
		if !exists {
			c.Error(errors.NewUnauthorizedError(errors.CodeAuthRequired, "Authentication required"))
			c.Abort()
			return
		}

		jwtClaims, ok := claims.(*jwt.Claims)
		if !ok {
			c.Error(errors.NewInternalServerError("Invalid JWT claims format"))
			c.Abort()
			return
		}

		for _, t := range types {
			if jwtClaims.UserType == t {
				c.Next()
				return
			}
		}

		c.Error(errors.NewForbiddenError("INSUFFICIENT_ROLE", "Your account type does not allow this operation"))
		c.Abort()
	}
}

// UserIDFromContext returns the authenticated user id, 0 when anonymous
func UserIDFromContext(c *gin.Context) uint {
	if v, exists := c.Get("userId"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
