package models

import "time"

// Direct is a private message from one user to another.
type Direct struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"index;not null" json:"from_user_id"`
	ToUserID   uint      `gorm:"index;not null" json:"to_user_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	FromUser   User      `gorm:"foreignKey:FromUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"from_user"`
	ToUser     User      `gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"to_user"`
}
