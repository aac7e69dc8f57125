package service

import (
	"context"
	"strings"

	"ripple/internal/media"
	"ripple/internal/models"
	"ripple/internal/repository"
)

const maxCaptionLen = 2200

type PostService struct {
	postRepo repository.PostRepository
	images   media.ImageStore
}

type CreatePostInput struct {
	UserID       uint
	Caption      string
	Filename     string
	ContentType  string
	ImageContent []byte
}

func NewPostService(postRepo repository.PostRepository, images media.ImageStore) *PostService {
	return &PostService{
		postRepo: postRepo,
		images:   images,
	}
}

// CreatePost stores the uploaded image and creates the post record. Posts are
// image-first: the caption is optional, the image is not.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if len(in.Caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2200 characters)")
	}
	if len(in.ImageContent) == 0 {
		return nil, models.NewValidationError("An image is required")
	}

	imageURL, err := s.images.Store(in.Filename, in.ContentType, in.ImageContent)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   in.UserID,
		ImageURL: imageURL,
		Caption:  strings.TrimSpace(in.Caption),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		_ = s.images.Remove(imageURL)
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, models.ViewerFor(in.UserID))
}

// GetPost returns a single post with viewer-relative flags.
func (s *PostService) GetPost(ctx context.Context, postID uint, viewer models.Viewer) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, viewer)
}

// GetUserPosts returns a page of a user's posts, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, userID uint, page models.PageRequest, viewer models.Viewer) ([]*models.Post, *models.PageMeta, error) {
	posts, total, err := s.postRepo.GetByUserID(ctx, userID, page.Limit, page.Offset(), viewer)
	if err != nil {
		return nil, nil, err
	}
	meta := models.NewPageMeta(page, total)
	return posts, &meta, nil
}

// DeletePost removes a post. Only the author may delete it; the stored image
// is removed best-effort after the row.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, models.ViewerFor(userID))
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	_ = s.images.Remove(post.ImageURL)
	return nil
}

// ListSaved returns the viewer's bookmarked posts.
func (s *PostService) ListSaved(ctx context.Context, userID uint, page models.PageRequest) ([]*models.Post, *models.PageMeta, error) {
	posts, total, err := s.postRepo.ListSavedBy(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, nil, err
	}
	meta := models.NewPageMeta(page, total)
	return posts, &meta, nil
}

// ListLiked returns the posts the viewer has liked.
func (s *PostService) ListLiked(ctx context.Context, userID uint, page models.PageRequest) ([]*models.Post, *models.PageMeta, error) {
	posts, total, err := s.postRepo.ListLikedBy(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, nil, err
	}
	meta := models.NewPageMeta(page, total)
	return posts, &meta, nil
}
