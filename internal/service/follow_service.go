package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/notifications"
	"ripple/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// Follow creates a follow edge. Repeats are no-ops that report the current
// state; following yourself is rejected.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) (*models.FollowState, error) {
	if followerID == targetID {
		return nil, models.NewInvalidOperationError("You cannot follow yourself")
	}

	exists, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", targetID)
	}

	changed, err := s.followRepo.Upsert(ctx, followerID, targetID)
	if err != nil {
		return nil, err
	}

	if changed && s.notifier != nil {
		if follower, ferr := s.userRepo.GetByID(ctx, followerID); ferr == nil {
			_ = s.notifier.PublishUser(ctx, targetID,
				notifications.NewFollowEvent(follower.ID, follower.Username))
		}
	}

	return &models.FollowState{Following: true, Changed: changed}, nil
}

// Unfollow removes a follow edge. It is unconditionally idempotent: a
// missing edge, a missing target, and unfollowing yourself all answer
// {following: false} since no edge can exist in any of those states.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) (*models.FollowState, error) {
	if followerID == targetID {
		return &models.FollowState{Following: false, Changed: false}, nil
	}

	changed, err := s.followRepo.Delete(ctx, followerID, targetID)
	if err != nil {
		return nil, err
	}
	return &models.FollowState{Following: false, Changed: changed}, nil
}

// ListFollowers returns a page of users who follow userID, newest edge first.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint, page models.PageRequest, viewer models.Viewer) ([]models.UserSummary, *models.PageMeta, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, nil, err
	}

	users, total, err := s.followRepo.ListFollowers(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, nil, err
	}
	return s.summarize(ctx, users, viewer, page, total)
}

// ListFollowing returns a page of users that userID follows, newest edge first.
func (s *FollowService) ListFollowing(ctx context.Context, userID uint, page models.PageRequest, viewer models.Viewer) ([]models.UserSummary, *models.PageMeta, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, nil, err
	}

	users, total, err := s.followRepo.ListFollowing(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, nil, err
	}
	return s.summarize(ctx, users, viewer, page, total)
}

func (s *FollowService) requireUser(ctx context.Context, userID uint) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}

func (s *FollowService) summarize(ctx context.Context, users []models.User, viewer models.Viewer, page models.PageRequest, total int64) ([]models.UserSummary, *models.PageMeta, error) {
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}

	if viewerID, ok := viewer.UserID(); ok && len(summaries) > 0 {
		ids := make([]uint, 0, len(summaries))
		for i := range summaries {
			ids = append(ids, summaries[i].ID)
		}

		followed, err := s.followRepo.FollowedIDSet(ctx, viewerID, ids)
		if err != nil {
			return nil, nil, err
		}
		followers, err := s.followRepo.FollowerIDSet(ctx, viewerID, ids)
		if err != nil {
			return nil, nil, err
		}

		for i := range summaries {
			id := summaries[i].ID
			_, summaries[i].IsFollowedByMe = followed[id]
			_, summaries[i].FollowsMe = followers[id]
			summaries[i].IsMe = id == viewerID
		}
	}

	meta := models.NewPageMeta(page, total)
	return summaries, &meta, nil
}
