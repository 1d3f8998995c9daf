package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-seating-api/internal/middleware"
	"github.com/noah-isme/sma-seating-api/internal/models"
)

// layoutAuthor returns the authenticated user a saved layout is credited to. Tokens without a
// user id leave the layout unattributed.
func layoutAuthor(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok || claims == nil || claims.UserID == "" {
		return nil
	}
	return claims
}
