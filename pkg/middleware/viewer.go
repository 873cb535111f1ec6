package middleware

import (
	"context"
	"strings"

	"support-chat-dashboard/backend/pkg/jwt"
	"support-chat-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ViewerIdentity extracts the acting viewer from a bearer token and threads
// it through the request context. Enforcement belongs to the upstream auth
// layer; an absent or bad token just leaves the viewer unset.
func ViewerIdentity(jwtService *jwt.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Debug("viewer token rejected", "error", err.Error())
			c.Next()
			return
		}

		c.Set("viewerID", claims.ViewerID)
		c.Set("viewerName", claims.Name)
		ctx := context.WithValue(c.Request.Context(), ViewerIDKey, claims.ViewerID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
