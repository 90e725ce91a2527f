package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/match-scheduler-gateway/internal/dto"
	"github.com/noah-isme/match-scheduler-gateway/internal/middleware"
	"github.com/noah-isme/match-scheduler-gateway/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext builds the caller identity forwarded to services and the upstream API.
func actorFromContext(c *gin.Context) dto.Actor {
	actor := dto.Actor{Token: c.GetString(middleware.ContextTokenKey)}
	if claims := claimsFromContext(c); claims != nil {
		actor.UserID = claims.UserID
		actor.Role = claims.Role
	}
	return actor
}

func queryInt(c *gin.Context, key string, fallback int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
