package models

import "time"

// Vote is a like on a post. The composite unique index closes the
// check-then-create race between concurrent toggles from one user.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"uniqueIndex:idx_votes_post_user;not null" json:"post_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_votes_post_user;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
