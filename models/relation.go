package models

import "time"

// Relation is a directed follow edge between two users. Duplicate edges are
// rejected by the composite unique index.
type Relation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"uniqueIndex:idx_relations_from_to;not null" json:"from_user_id"`
	ToUserID   uint      `gorm:"uniqueIndex:idx_relations_from_to;not null" json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
	FromUser   User      `gorm:"foreignKey:FromUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ToUser     User      `gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
