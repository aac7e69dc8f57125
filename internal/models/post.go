// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Ripple application. LikeCount and
// CommentCount are denormalized columns kept in step with the like and
// comment rows inside the same transaction as every edge mutation; the rows
// remain the source of truth.
type Post struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	User         User   `gorm:"foreignKey:UserID" json:"user"`
	ImageURL     string `gorm:"not null" json:"image_url"`
	Caption      string `gorm:"type:text" json:"caption"`
	LikeCount    int    `gorm:"not null;default:0" json:"likes_count"`
	CommentCount int    `gorm:"not null;default:0" json:"comments_count"`
	// Liked indicates whether the requesting viewer liked this post (computed)
	Liked bool `gorm:"-" json:"likedByMe"`
	// Saved indicates whether the requesting viewer saved this post (computed)
	Saved     bool           `gorm:"-" json:"savedByMe"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
