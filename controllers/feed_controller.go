package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sociumlab/socium/models"
	"github.com/sociumlab/socium/utils"
)

// FeedController serves the explore and home feeds.
type FeedController struct {
	db *gorm.DB
}

// NewFeedController creates a FeedController.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{db: db}
}

// Explore returns every post and every user. An optional `search` query
// narrows posts by body substring and users by username substring; the match
// is case-sensitive (instr is byte-wise on sqlite, binary-collated on MySQL).
func (f *FeedController) Explore(ctx *gin.Context) {
	search := ctx.Query("search")

	if search == "" {
		if b, ok := utils.CacheGetBytes("cache:feed:explore"); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	postQuery := f.db.Preload("User")
	userQuery := f.db.Model(&models.User{})
	if search != "" {
		postQuery = postQuery.Where("instr(body, ?) > 0", search)
		userQuery = userQuery.Where("instr(username, ?) > 0", search)
	}

	var posts []models.Post
	if err := postQuery.Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list posts")
		return
	}
	var users []models.User
	if err := userQuery.Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list users")
		return
	}

	payload := gin.H{
		"posts": posts,
		"users": publicUsers(users),
	}
	if search == "" {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON("cache:feed:explore", wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// Home returns posts authored by the users the requester follows, plus those
// users, with the same optional search filter as Explore.
func (f *FeedController) Home(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	followed := f.db.Model(&models.Relation{}).
		Select("to_user_id").
		Where("from_user_id = ?", userID)

	search := ctx.Query("search")

	postQuery := f.db.Preload("User").Where("user_id IN (?)", followed)
	userQuery := f.db.Model(&models.User{}).Where("id IN (?)", followed)
	if search != "" {
		postQuery = postQuery.Where("instr(body, ?) > 0", search)
		userQuery = userQuery.Where("instr(username, ?) > 0", search)
	}

	var posts []models.Post
	if err := postQuery.Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to list posts")
		return
	}
	var users []models.User
	if err := userQuery.Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to list users")
		return
	}

	utils.Success(ctx, gin.H{
		"posts": posts,
		"users": publicUsers(users),
	})
}
