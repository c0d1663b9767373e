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

// CommentController manages comments and replies on posts.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// CreateComment adds a top-level comment to the post addressed by id and
// slug.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40030, err)
		return
	}

	body := utils.Sanitize(req.Body)
	if strings.TrimSpace(body) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "body cannot be empty")
		return
	}

	var post models.Post
	err := c.db.Where("id = ? AND slug = ?", ctx.Param("id"), ctx.Param("slug")).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: userID,
		Body:   body,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to create comment")
		return
	}
	if err := c.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load comment")
		return
	}

	utils.Created(ctx, gin.H{"comment": comment})
}

// CreateReply adds a reply under an existing comment. Both the parent post
// and the parent comment must exist, and the reply is attached to the parent
// comment's post.
func (c *CommentController) CreateReply(ctx *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40032, err)
		return
	}

	body := utils.Sanitize(req.Body)
	if strings.TrimSpace(body) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "body cannot be empty")
		return
	}

	var post models.Post
	if err := c.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load post")
		return
	}

	var parent models.Comment
	if err := c.db.Where("id = ? AND post_id = ?", ctx.Param("commentId"), post.ID).First(&parent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return
	}

	reply := models.Comment{
		PostID:    parent.PostID,
		UserID:    userID,
		Body:      body,
		ReplyToID: &parent.ID,
		IsReply:   true,
	}
	if err := c.db.Create(&reply).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to create reply")
		return
	}
	if err := c.db.Preload("User").First(&reply, reply.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to load reply")
		return
	}

	utils.Created(ctx, gin.H{"comment": reply})
}

// DeleteComment removes the requester's own comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	var comment models.Comment
	if err := c.db.First(&comment, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "unauthorized")
		return
	}
	if comment.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40303, "you can only delete your own comments")
		return
	}

	if err := c.db.Delete(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to delete comment")
		return
	}

	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
