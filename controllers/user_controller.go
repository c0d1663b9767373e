package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sociumlab/socium/config"
	"github.com/sociumlab/socium/models"
	"github.com/sociumlab/socium/utils"
)

// UserController serves profiles, the follow graph and profile editing.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// Profile returns a user's profile, their posts, whether the requester
// follows them and their follower count.
func (u *UserController) Profile(ctx *gin.Context) {
	var user models.User
	if err := u.db.Where("username = ?", ctx.Param("user")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load user")
		return
	}

	var posts []models.Post
	if err := u.db.Preload("User").Where("user_id = ?", user.ID).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to list posts")
		return
	}

	isFollowed := false
	if viewerID, ok := getUserID(ctx); ok {
		var n int64
		u.db.Model(&models.Relation{}).
			Where("from_user_id = ? AND to_user_id = ?", viewerID, user.ID).
			Count(&n)
		isFollowed = n > 0
	}

	var followers int64
	if err := u.db.Model(&models.Relation{}).Where("to_user_id = ?", user.ID).Count(&followers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to count followers")
		return
	}

	utils.Success(ctx, gin.H{
		"user":        publicUser(user),
		"posts":       posts,
		"is_followed": isFollowed,
		"followers":   followers,
	})
}

// Relations returns a user together with everyone following them and
// everyone they follow.
func (u *UserController) Relations(ctx *gin.Context) {
	var user models.User
	if err := u.db.Where("username = ?", ctx.Param("user")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load user")
		return
	}

	var followers []models.User
	if err := u.db.
		Joins("JOIN relations ON relations.from_user_id = users.id").
		Where("relations.to_user_id = ?", user.ID).
		Find(&followers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to list followers")
		return
	}

	var following []models.User
	if err := u.db.
		Joins("JOIN relations ON relations.to_user_id = users.id").
		Where("relations.from_user_id = ?", user.ID).
		Find(&following).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to list following")
		return
	}

	utils.Success(ctx, gin.H{
		"user":      publicUser(user),
		"followers": publicUsers(followers),
		"following": publicUsers(following),
	})
}

// Follow creates a follow edge from the requester to the target user id.
// Following twice is forbidden, as is following yourself.
func (u *UserController) Follow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40117, "unauthorized")
		return
	}

	targetID, err := strconv.ParseUint(ctx.Param("user"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid user id")
		return
	}
	if uint(targetID) == userID {
		utils.Error(ctx, http.StatusBadRequest, 40041, "you cannot follow yourself")
		return
	}

	var target models.User
	if err := u.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50056, "failed to load user")
		return
	}

	var existing models.Relation
	err = u.db.Where("from_user_id = ? AND to_user_id = ?", userID, target.ID).First(&existing).Error
	if err == nil {
		utils.Error(ctx, http.StatusForbidden, 40304, "you are already following this user")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50057, "failed to load relation")
		return
	}

	relation := models.Relation{FromUserID: userID, ToUserID: target.ID}
	if err := u.db.Create(&relation).Error; err != nil {
		// A concurrent duplicate hits the unique (from, to) index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusForbidden, 40304, "you are already following this user")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50058, "failed to create relation")
		return
	}

	utils.Created(ctx, gin.H{"detail": "you followed successfully"})
}

// Unfollow removes the follow edge from the requester to the target user id.
// Unfollowing without an existing edge is forbidden.
func (u *UserController) Unfollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40118, "unauthorized")
		return
	}

	targetID, err := strconv.ParseUint(ctx.Param("user"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid user id")
		return
	}

	var target models.User
	if err := u.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50059, "failed to load user")
		return
	}

	var relation models.Relation
	err = u.db.Where("from_user_id = ? AND to_user_id = ?", userID, target.ID).First(&relation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusForbidden, 40305, "you are not following this user")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load relation")
		return
	}

	if err := u.db.Delete(&relation).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to delete relation")
		return
	}

	utils.Success(ctx, gin.H{"detail": "unfollowed successfully"})
}

// EditProfile applies a full update to the named user's profile. Only the
// user themselves may edit it; the mismatch case is a bare 403 status with
// no body.
func (u *UserController) EditProfile(ctx *gin.Context) {
	var user models.User
	if err := u.db.Where("username = ?", ctx.Param("user")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to load user")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok || userID != user.ID {
		ctx.Status(http.StatusForbidden)
		return
	}

	var req struct {
		Username   string `json:"username" binding:"required,min=3,max=150"`
		Email      string `json:"email" binding:"required,email"`
		Bio        string `json:"bio" binding:"max=300"`
		PictureURL string `json:"picture_url" binding:"max=512"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40043, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	var clash models.User
	if err := u.db.Where("username = ? AND id <> ?", req.Username, user.ID).First(&clash).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40044, "username already taken")
		return
	}
	if err := u.db.Where("email = ? AND id <> ?", req.Email, user.ID).First(&clash).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40045, "email already registered")
		return
	}

	user.Username = req.Username
	user.Email = req.Email
	user.Bio = utils.Sanitize(req.Bio)
	user.PictureURL = req.PictureURL

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to update profile")
		return
	}

	utils.InvalidateByPrefix("cache:feed:explore")
	utils.InvalidateByPrefix("cache:user:")

	utils.Success(ctx, gin.H{
		"message": "you edited your profile successfully",
		"user":    publicUser(user),
	})
}

// UploadPicture stores a profile picture under a date-keyed path and points
// the requester's profile at it.
func (u *UserController) UploadPicture(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40119, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
		return
	}

	file, header, err := ctx.Request.FormFile("picture")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40046, "no picture uploaded")
		return
	}
	defer file.Close()

	const maxSize = 5 * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40047, "picture exceeds 5MB")
		return
	}

	now := time.Now()
	baseDir := filepath.Join(config.Get().UploadDir, now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to create upload directory")
		return
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dstPath := filepath.Join(baseDir, name)
	if err := ctx.SaveUploadedFile(header, dstPath); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to save picture")
		return
	}

	user.PictureURL = fmt.Sprintf("/static/profile/%s/%s/%s/%s",
		now.Format("2006"), now.Format("01"), now.Format("02"), name)
	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50066, "failed to update profile")
		return
	}

	utils.Success(ctx, gin.H{"picture_url": user.PictureURL})
}
