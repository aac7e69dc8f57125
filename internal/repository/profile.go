package repository

import (
	"context"

	"ripple/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ProfileCounts holds the aggregate figures shown on a profile page.
type ProfileCounts struct {
	Posts         int64
	Followers     int64
	Following     int64
	LikesReceived int64
}

// ProfileRepository aggregates per-user counts for profile views.
type ProfileRepository interface {
	Counts(ctx context.Context, userID uint) (*ProfileCounts, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Counts runs the four independent aggregates concurrently. Likes received
// counts live likes against the user's live posts, so deleting a post
// removes its likes from the figure.
func (r *profileRepository) Counts(ctx context.Context, userID uint) (*ProfileCounts, error) {
	var counts ProfileCounts
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Post{}).
			Where("user_id = ?", userID).
			Count(&counts.Posts).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Follow{}).
			Where("following_id = ?", userID).
			Count(&counts.Followers).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Follow{}).
			Where("follower_id = ?", userID).
			Count(&counts.Following).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Like{}).
			Joins("JOIN posts ON posts.id = likes.post_id").
			Where("posts.user_id = ? AND posts.deleted_at IS NULL", userID).
			Count(&counts.LikesReceived).Error
	})

	if err := g.Wait(); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &counts, nil
}
