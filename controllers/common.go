package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/sociumlab/socium/middleware"
	"github.com/sociumlab/socium/models"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// publicUser shapes a user record for API responses.
func publicUser(user models.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"bio":            user.Bio,
		"picture_url":    user.PictureURL,
		"email_verified": user.EmailVerified,
		"created_at":     user.CreatedAt,
	}
}

func publicUsers(users []models.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, publicUser(u))
	}
	return out
}
