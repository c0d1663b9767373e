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

// DirectController manages private messages between two users.
type DirectController struct {
	db *gorm.DB
}

// NewDirectController creates a DirectController.
func NewDirectController(db *gorm.DB) *DirectController {
	return &DirectController{db: db}
}

// ListDirects returns the requester's received and sent messages.
func (d *DirectController) ListDirects(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	var received []models.Direct
	if err := d.db.Preload("FromUser").Preload("ToUser").
		Where("to_user_id = ?", userID).Find(&received).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list received messages")
		return
	}

	var sent []models.Direct
	if err := d.db.Preload("FromUser").Preload("ToUser").
		Where("from_user_id = ?", userID).Find(&sent).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to list sent messages")
		return
	}

	utils.Success(ctx, gin.H{
		"directs": gin.H{
			"received_messages": received,
			"sent_messages":     sent,
		},
	})
}

// GetDirect returns a single message. Only its sender or recipient may read
// it.
func (d *DirectController) GetDirect(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	var direct models.Direct
	if err := d.db.Preload("FromUser").Preload("ToUser").
		First(&direct, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "message not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load message")
		return
	}

	if direct.FromUserID != userID && direct.ToUserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40306, "you do not have access to this message")
		return
	}

	utils.Success(ctx, gin.H{"direct": direct})
}

// SendDirect sends a message to the named user. The sender is always the
// requester, whatever the payload claims.
func (d *DirectController) SendDirect(ctx *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, 40050, err)
		return
	}

	body := utils.Sanitize(req.Body)
	if strings.TrimSpace(body) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40051, "body cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}

	var recipient models.User
	if err := d.db.Where("username = ?", ctx.Param("user")).First(&recipient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to load user")
		return
	}

	direct := models.Direct{
		FromUserID: userID,
		ToUserID:   recipient.ID,
		Body:       body,
	}
	if err := d.db.Create(&direct).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to send message")
		return
	}

	utils.Created(ctx, gin.H{"message": "direct message sent successfully"})
}
