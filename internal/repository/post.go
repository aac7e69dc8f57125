// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts. Per-viewer
// annotation (likedByMe, savedByMe) is applied over whole pages with one
// batched edge lookup per edge type, never per row.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewer models.Viewer) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, viewer models.Viewer) ([]*models.Post, int64, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int, viewer models.Viewer) ([]*models.Post, int64, error)
	ListSavedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error)
	ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db        *gorm.DB
	reactions ReactionRepository
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB, reactions ReactionRepository) PostRepository {
	return &postRepository{db: db, reactions: reactions}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewer models.Viewer) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	var err error
	if !viewer.Identified() {
		err = cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
			return r.fetchPost(ctx, id, &post)
		})
	} else {
		err = r.fetchPost(ctx, id, &post)
	}
	if err != nil {
		return nil, err
	}

	if err := r.annotate(ctx, viewer, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) fetchPost(ctx context.Context, id uint, post *models.Post) error {
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewer models.Viewer) ([]*models.Post, int64, error) {
	return r.list(ctx, viewer, limit, offset, "user_id = ?", userID)
}

// ListByAuthors backs the feed: posts by any of the candidate authors,
// newest first. An empty author set yields an empty page, not an error.
func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int, viewer models.Viewer) ([]*models.Post, int64, error) {
	if len(authorIDs) == 0 {
		return []*models.Post{}, 0, nil
	}
	return r.list(ctx, viewer, limit, offset, "user_id IN ?", authorIDs)
}

func (r *postRepository) list(ctx context.Context, viewer models.Viewer, limit, offset int, cond string, args ...interface{}) ([]*models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where(cond, args...).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where(cond, args...).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if err := r.annotate(ctx, viewer, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListSavedBy returns the user's bookmarked posts, newest bookmark first.
// The saved flag is true by definition; liked is still batch-annotated.
func (r *postRepository) ListSavedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN saves ON saves.post_id = posts.id").
		Where("saves.user_id = ?", userID).
		Order("saves.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if err := r.annotate(ctx, models.ViewerFor(userID), posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListLikedBy returns the posts the user has liked, newest like first.
func (r *postRepository) ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if err := r.annotate(ctx, models.ViewerFor(userID), posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// annotate fills the viewer-dependent fields for a page of posts with two
// batched lookups keyed by the page's post-id set.
func (r *postRepository) annotate(ctx context.Context, viewer models.Viewer, posts []*models.Post) error {
	viewerID, ok := viewer.UserID()
	if !ok || len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	liked, err := r.reactions.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	saved, err := r.reactions.SavedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}

	for _, p := range posts {
		_, p.Liked = liked[p.ID]
		_, p.Saved = saved[p.ID]
	}
	return nil
}
