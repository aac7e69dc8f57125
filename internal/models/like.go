package models

import (
	"time"
)

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; the row set is the
// source of truth for Post.LikeCount.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}

// LikeState is the result of a like/unlike operation. Repeated operations
// succeed and report the unchanged state rather than erroring.
type LikeState struct {
	Liked     bool `json:"likedByMe"`
	LikeCount int  `json:"likes_count"`
	// Changed is false when the operation was a no-op (edge already in the
	// requested state).
	Changed bool `json:"-"`
}

// SaveState is the result of a save/unsave operation.
type SaveState struct {
	Saved   bool `json:"savedByMe"`
	Changed bool `json:"-"`
}
