package middleware

import (
	"context"
	"net/http"
	"strings"

	"commune/internal/model"
	"commune/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const ContextActorKey = "actor"

const accessTokenCookie = "access_token"

// ActorSource resolves the token subject to a live account so the actor's
// role is current even if the token predates a role change.
type ActorSource interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthRequired resolves the actor from the access token (cookie first, then
// bearer header) and attaches it to the request. Every token failure collapses
// to one unauthenticated outcome.
func AuthRequired(tokens *pkg.TokenManager, users ActorSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "access token not found"})
			return
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid access token"})
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), claims.Subject)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid access token"})
			return
		}

		actor := model.Actor{ID: user.ID, Username: user.Username, Role: user.Role}
		c.Set(ContextActorKey, actor)

		log := zerolog.Ctx(c.Request.Context()).With().
			Uint64("user_id", actor.ID).
			Str("user_role", actor.Role).
			Logger()
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context()))

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// ActorFrom returns the actor planted by AuthRequired.
func ActorFrom(c *gin.Context) model.Actor {
	v, _ := c.Get(ContextActorKey)
	actor, _ := v.(model.Actor)
	return actor
}
