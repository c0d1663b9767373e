package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sociumlab/socium/models"
	"github.com/sociumlab/socium/utils"
)

// PostController manages the post CRUD surface and like toggling.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// CreatePost persists a new post authored by the requester. The slug is
// derived from the body.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40020, err)
		return
	}

	body := utils.Sanitize(req.Body)
	if strings.TrimSpace(body) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "body cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post := models.Post{
		UserID: userID,
		Body:   body,
		Slug:   utils.PostSlug(body),
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}
	if err := p.db.Preload("User").First(&post, post.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to load post")
		return
	}

	utils.InvalidateByPrefix("cache:feed:explore")
	utils.InvalidateByPrefix("cache:user:" + post.User.Username + ":posts")

	utils.Created(ctx, gin.H{"post": post})
}

// GetPost returns a post addressed by id AND slug, its top-level comments,
// whether the requester liked it and the like count. The slug is part of the
// lookup key: a stale slug misses even when the id exists.
func (p *PostController) GetPost(ctx *gin.Context) {
	var post models.Post
	err := p.db.Preload("User").
		Where("id = ? AND slug = ?", ctx.Param("id"), ctx.Param("slug")).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	var comments []models.Comment
	if err := p.db.Preload("User").
		Where("post_id = ? AND is_reply = ?", post.ID, false).
		Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load comments")
		return
	}

	liked := false
	if userID, ok := getUserID(ctx); ok {
		var n int64
		p.db.Model(&models.Vote{}).
			Where("post_id = ? AND user_id = ?", post.ID, userID).
			Count(&n)
		liked = n > 0
	}

	var likesCount int64
	if err := p.db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&likesCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to count likes")
		return
	}

	utils.Success(ctx, gin.H{
		"post":        post,
		"comments":    comments,
		"liked":       liked,
		"likes_count": likesCount,
	})
}

// ListUserPosts returns all posts authored by the named user in creation
// order.
func (p *PostController) ListUserPosts(ctx *gin.Context) {
	username := ctx.Param("user")

	cacheKey := "cache:user:" + username + ":posts"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var user models.User
	if err := p.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load user")
		return
	}

	var posts []models.Post
	if err := p.db.Preload("User").Where("user_id = ?", user.ID).Order("id").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to list posts")
		return
	}

	payload := gin.H{"posts": posts}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, 0)
	utils.Success(ctx, payload)
}

// UpdatePost applies a partial update to the requester's own post. When the
// body changes the slug is re-derived from it.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Body *string `json:"body"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40022, err)
		return
	}

	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only update your own posts")
		return
	}

	if req.Body != nil {
		body := utils.Sanitize(*req.Body)
		if strings.TrimSpace(body) == "" {
			utils.Error(ctx, http.StatusBadRequest, 40023, "body cannot be empty")
			return
		}
		post.Body = body
		post.Slug = utils.PostSlug(body)
	}

	if err := p.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:feed:explore")
	utils.InvalidateByPrefix("cache:user:")

	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost hard-deletes the requester's own post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		return
	}

	if err := p.db.Delete(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:feed:explore")
	utils.InvalidateByPrefix("cache:user:")

	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// ToggleLike flips the requester's vote on a post: an existing vote is
// removed (200), a missing one is created (201). Two consecutive calls
// return to the original state.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	var vote models.Vote
	err := p.db.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&vote).Error
	if err == nil {
		if err := p.db.Delete(&vote).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to remove like")
			return
		}
		utils.Success(ctx, gin.H{"detail": "you unliked this post"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load like")
		return
	}

	// The unique (post_id, user_id) index makes a concurrent duplicate
	// toggle collapse into a single vote.
	if err := p.db.Create(&models.Vote{PostID: post.ID, UserID: userID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Created(ctx, gin.H{"detail": "you liked this post"})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to create like")
		return
	}
	utils.Created(ctx, gin.H{"detail": "you liked this post"})
}
