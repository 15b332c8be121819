package middleware

import (
	"strings"

	"github.com/erpdesk/erpdesk-api/internal/domain/enum"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/dto/response"
	"github.com/erpdesk/erpdesk-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware accepts "Authorization: Bearer <access token>" and puts the
// token's user on the context for handlers and RequireRole.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Authorization header is required")
			return
		}
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	response.Unauthorized(c, message)
	c.Abort()
}

// RequireRole lets the request through only for the listed roles
func RequireRole(roles ...enum.Role) gin.HandlerFunc {
	allowed := make(map[enum.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[enum.Role(c.GetString("user_role"))] {
			response.Forbidden(c, "Insufficient role privileges")
			c.Abort()
			return
		}
		c.Next()
	}
}
