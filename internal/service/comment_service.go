package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/notifications"
	"ripple/internal/repository"
)

const maxCommentLen = 1000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	notifier    *notifications.Notifier
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// CreateComment adds a comment to a post and notifies the post owner.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, models.Anonymous)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && post.UserID != in.UserID {
		if commenter, cerr := s.userRepo.GetByID(ctx, in.UserID); cerr == nil {
			_ = s.notifier.PublishUser(ctx, post.UserID,
				notifications.NewCommentEvent(in.PostID, created.ID, commenter.ID, commenter.Username))
		}
	}

	return created, nil
}

// ListComments returns a page of a post's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint, page models.PageRequest) ([]*models.Comment, *models.PageMeta, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, models.Anonymous); err != nil {
		return nil, nil, err
	}

	comments, total, err := s.commentRepo.ListByPost(ctx, postID, page.Limit, page.Offset())
	if err != nil {
		return nil, nil, err
	}
	meta := models.NewPageMeta(page, total)
	return comments, &meta, nil
}

// DeleteComment removes a comment. Only the comment author may delete it,
// owning the post is not enough.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	return s.commentRepo.Delete(ctx, commentID)
}
