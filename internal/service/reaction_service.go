package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/notifications"
	"ripple/internal/observability"
	"ripple/internal/repository"
)

type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
	followRepo   repository.FollowRepository
	userRepo     repository.UserRepository
	notifier     *notifications.Notifier
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		followRepo:   followRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// Like records a like. Repeat likes are no-ops reporting the current state;
// the post owner is notified only on a state change.
func (s *ReactionService) Like(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	state, err := s.reactionRepo.Like(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	observability.ObserveReaction("like", state.Changed)

	if state.Changed && s.notifier != nil {
		post, perr := s.postRepo.GetByID(ctx, postID, models.Anonymous)
		liker, lerr := s.userRepo.GetByID(ctx, userID)
		if perr == nil && lerr == nil && post.UserID != userID {
			_ = s.notifier.PublishUser(ctx, post.UserID,
				notifications.NewLikeEvent(postID, liker.ID, liker.Username))
		}
	}

	return state, nil
}

// Unlike removes a like. Unliking a post you never liked is a no-op.
func (s *ReactionService) Unlike(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	state, err := s.reactionRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	observability.ObserveReaction("unlike", state.Changed)
	return state, nil
}

// Save bookmarks a post for the user. Idempotent.
func (s *ReactionService) Save(ctx context.Context, userID, postID uint) (*models.SaveState, error) {
	state, err := s.reactionRepo.Save(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	observability.ObserveReaction("save", state.Changed)
	return state, nil
}

// Unsave removes a bookmark. Idempotent.
func (s *ReactionService) Unsave(ctx context.Context, userID, postID uint) (*models.SaveState, error) {
	state, err := s.reactionRepo.Unsave(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	observability.ObserveReaction("unsave", state.Changed)
	return state, nil
}

// ListLikers returns a page of users who liked the post, newest like first,
// annotated with the viewer's follow relationships.
func (s *ReactionService) ListLikers(ctx context.Context, postID uint, page models.PageRequest, viewer models.Viewer) ([]models.UserSummary, *models.PageMeta, error) {
	users, total, err := s.reactionRepo.ListLikers(ctx, postID, page.Limit, page.Offset())
	if err != nil {
		return nil, nil, err
	}

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
