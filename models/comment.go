package models

import "time"

// Comment belongs to a post. A reply is a comment whose ReplyToID points at
// another comment on the same post; IsReply is true exactly when ReplyToID
// is set.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ReplyToID *uint     `gorm:"index" json:"reply_to"`
	IsReply   bool      `gorm:"default:false" json:"is_reply"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}
