// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines persistence operations for like and save edges
// and keeps the denormalized Post.LikeCount in step with the like rows.
// Every mutation that changes the edge set updates the counter inside the
// same transaction; a partially applied edge+counter pair must never be
// visible.
type ReactionRepository interface {
	Like(ctx context.Context, userID, postID uint) (*models.LikeState, error)
	Unlike(ctx context.Context, userID, postID uint) (*models.LikeState, error)
	Save(ctx context.Context, userID, postID uint) (*models.SaveState, error)
	Unsave(ctx context.Context, userID, postID uint) (*models.SaveState, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	IsSaved(ctx context.Context, userID, postID uint) (bool, error)
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]struct{}, error)
	SavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]struct{}, error)
	ListLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Like inserts the edge and increments the post's like counter atomically.
// A duplicate like is a no-op success returning the current counter.
func (r *reactionRepository) Like(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	state := &models.LikeState{Liked: true}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "like_count").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}

		edge := &models.Like{UserID: userID, PostID: postID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(edge)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			// Edge already present; report the stored counter unchanged.
			state.LikeCount = post.LikeCount
			return nil
		}

		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return models.NewInternalError(err)
		}

		state.Changed = true
		return tx.Model(&models.Post{}).
			Select("like_count").
			Where("id = ?", postID).
			Scan(&state.LikeCount).Error
	})
	if err != nil {
		return nil, err
	}

	if state.Changed {
		cache.InvalidatePost(ctx, postID)
	}
	return state, nil
}

// Unlike removes the edge and decrements the counter, clamped at zero so
// drift from manual data edits can never push it negative.
func (r *reactionRepository) Unlike(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	state := &models.LikeState{Liked: false}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "like_count").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return models.NewInternalError(err)
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			state.LikeCount = post.LikeCount
			return nil
		}

		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count",
				gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error; err != nil {
			return models.NewInternalError(err)
		}

		state.Changed = true
		return tx.Model(&models.Post{}).
			Select("like_count").
			Where("id = ?", postID).
			Scan(&state.LikeCount).Error
	})
	if err != nil {
		return nil, err
	}

	if state.Changed {
		cache.InvalidatePost(ctx, postID)
	}
	return state, nil
}

// Save inserts the bookmark edge if absent. No counter side effect.
func (r *reactionRepository) Save(ctx context.Context, userID, postID uint) (*models.SaveState, error) {
	if err := r.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	edge := &models.Save{UserID: userID, PostID: postID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	return &models.SaveState{Saved: true, Changed: res.RowsAffected > 0}, nil
}

// Unsave removes the bookmark edge if present.
func (r *reactionRepository) Unsave(ctx context.Context, userID, postID uint) (*models.SaveState, error) {
	if err := r.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Save{})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	return &models.SaveState{Saved: false, Changed: res.RowsAffected > 0}, nil
}

func (r *reactionRepository) requirePost(ctx context.Context, postID uint) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func (r *reactionRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *reactionRepository) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// LikedPostIDs returns the subset of postIDs the user has liked, as one
// batched query over the page's id set.
func (r *reactionRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]struct{}, error) {
	if len(postIDs) == 0 {
		return map[uint]struct{}{}, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return toIDSet(ids), nil
}

// SavedPostIDs returns the subset of postIDs the user has saved.
func (r *reactionRepository) SavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]struct{}, error) {
	if len(postIDs) == 0 {
		return map[uint]struct{}{}, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return toIDSet(ids), nil
}

// ListLikers returns users who liked the post, newest like first.
func (r *reactionRepository) ListLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, int64, error) {
	if err := r.requirePost(ctx, postID); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.post_id = ? AND users.deleted_at IS NULL", postID).
		Order("likes.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}
