package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"questbridge-api/models"
	"questbridge-api/services"
	"questbridge-api/utils"
)

const identityKey = "identity"

// AuthRequired verifies the bearer token and stores the caller's identity on
// the context.
func AuthRequired(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		identity, err := auth.Verify(strings.TrimSpace(token))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		c.Set(identityKey, *identity)
		c.Set("user_id", identity.ID)
		c.Next()
	}
}

// RequireRole must run after AuthRequired.
func RequireRole(auth services.AuthService, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}
		if err := auth.Authorize(identity, role); err != nil {
			abort(c, http.StatusForbidden, "Access denied. Requires the "+string(role)+" role.")
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, utils.ErrorResponse{Error: message, Code: status})
}
