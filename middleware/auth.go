package middleware

import (
	"strings"

	"roadmap-review/helper"
	"roadmap-review/models"
	"roadmap-review/services"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// AuthMiddleware resolves the bearer token into the calling Actor. The user
// is reloaded on every request so suspensions and admin changes apply at once.
func AuthMiddleware(authService services.AuthService, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			h.SendUnauthorizedError(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			h.SendUnauthorizedError(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(tokenString)
		if err != nil {
			h.SendUnauthorizedError(c, err.Error())
			c.Abort()
			return
		}

		user, err := authService.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			h.SendUnauthorizedError(c, "User no longer exists")
			c.Abort()
			return
		}

		c.Set(actorKey, user.Actor())

		c.Next()
	}
}

// GetActor returns the actor stored by AuthMiddleware.
func GetActor(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}
