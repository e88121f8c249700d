// internal/httpapi/middleware.go
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/pkg/auth"
)

// ClientMetadata records the caller's address and user agent on the request context
func ClientMetadata() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := middleware.WithClientMetadata(c.Request.Context(), c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Auth requires a valid access token and stores the caller's identity
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		ctx := middleware.WithIdentity(c.Request.Context(), claims.UserID, claims.Username, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func currentUser(c *gin.Context) (string, bool) {
	username, ok := middleware.GetUsernameFromContext(c.Request.Context())
	if !ok || username == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return "", false
	}
	return username, true
}
