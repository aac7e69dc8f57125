// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Ripple application.
// Username, email and phone are unique; phone is optional and therefore
// nullable so the unique index ignores absent values.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     *string        `gorm:"uniqueIndex" json:"phone,omitempty"`
	Password  string         `gorm:"not null" json:"-"`
	Bio       string         `json:"bio"`
	AvatarURL string         `json:"avatar_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// UserSummary is the trimmed user shape embedded in list responses
// (followers, following, likers, post authors).
type UserSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	// IsFollowedByMe is true when the requesting viewer follows this user.
	IsFollowedByMe bool `gorm:"-" json:"isFollowedByMe"`
	// FollowsMe is true when this user follows the requesting viewer.
	FollowsMe bool `gorm:"-" json:"followsMe,omitempty"`
	// IsMe is true when this user is the requesting viewer.
	IsMe bool `gorm:"-" json:"isMe,omitempty"`
}

// Summary converts a full user row to its list shape.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// Profile is the public profile payload with on-demand aggregate counts.
type Profile struct {
	User
	PostCount      int64 `json:"postCount"`
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
	LikesReceived  int64 `json:"likesReceived"`
	// IsFollowedByMe annotates whether the viewer follows this profile.
	IsFollowedByMe bool `json:"isFollowedByMe"`
}
