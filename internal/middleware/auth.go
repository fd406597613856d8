package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tableside/restaurant-pos/internal/identity"
	"github.com/tableside/restaurant-pos/internal/models"
	"github.com/tableside/restaurant-pos/internal/tokens"
)

const ContextIdentity = "identity"

// AuthMiddleware validates the bearer token and places the resolved
// identity (owner or staff) in the request context.
func AuthMiddleware(tm *tokens.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		claims, err := tm.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		id, err := identityFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextIdentity, id)
		c.Next()
	}
}

// Identity pulls the authenticated identity set by AuthMiddleware.
func Identity(c *gin.Context) identity.Identity {
	return c.MustGet(ContextIdentity).(identity.Identity)
}

func identityFromClaims(claims *tokens.Claims) (identity.Identity, error) {
	u := models.User{
		ID:           claims.UserID,
		Email:        claims.Email,
		Name:         claims.Name,
		Role:         claims.Role,
		RestaurantID: claims.RestaurantID,
	}
	return identity.FromUser(&u)
}
