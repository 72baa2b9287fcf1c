package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/coursedesk/internal/pkg/auth"
)

// Context keys set by AuthMiddleware
const (
	ContextKeySubject = "subject"
)

// AuthMiddleware guards routes with bearer tokens
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth rejects requests without a valid "Authorization: Bearer <token>" header
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}
