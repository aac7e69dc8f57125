// Package service contains the application's business logic, between HTTP
// handlers and repositories.
package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/validation"
)

type UserService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
}

type UpdateProfileInput struct {
	UserID    uint
	Name      *string
	Username  *string
	Bio       *string
	AvatarURL *string
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	profileRepo repository.ProfileRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		profileRepo: profileRepo,
	}
}

// GetProfile returns a user's profile with aggregate counts. The follow flag
// reflects the viewer's relationship to the profile owner.
func (s *UserService) GetProfile(ctx context.Context, userID uint, viewer models.Viewer) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.profileRepo.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		User:           *user,
		PostCount:      counts.Posts,
		FollowerCount:  counts.Followers,
		FollowingCount: counts.Following,
		LikesReceived:  counts.LikesReceived,
	}

	if viewerID, ok := viewer.UserID(); ok && viewerID != userID {
		following, err := s.followRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowedByMe = following
	}

	return profile, nil
}

// UpdateProfile applies a partial update. Username changes are validated and
// checked for availability before the write; the unique index still backstops
// concurrent claims.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username != user.Username {
			if err := validation.ValidateUsername(username); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
			existing, err := s.userRepo.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, models.NewDuplicateError("username")
			}
			user.Username = username
		}
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		if len(name) > 100 {
			return nil, models.NewValidationError("Name too long (max 100 characters)")
		}
		user.Name = name
	}

	if in.Bio != nil {
		if len(*in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}

	if in.AvatarURL != nil {
		user.AvatarURL = *in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Search finds users by username or display name. An empty query or a query
// with no matches both return an empty page.
func (s *UserService) Search(ctx context.Context, query string, page models.PageRequest, viewer models.Viewer) ([]models.UserSummary, *models.PageMeta, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		meta := models.NewPageMeta(page, 0)
		return []models.UserSummary{}, &meta, nil
	}

	users, total, err := s.userRepo.Search(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return nil, nil, err
	}

	summaries, err := s.annotateUsers(ctx, users, viewer)
	if err != nil {
		return nil, nil, err
	}

	meta := models.NewPageMeta(page, total)
	return summaries, &meta, nil
}

// annotateUsers converts users to summaries with viewer-relative follow flags,
// filled by two batched lookups over the page's id set.
func (s *UserService) annotateUsers(ctx context.Context, users []models.User, viewer models.Viewer) ([]models.UserSummary, error) {
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}

	viewerID, ok := viewer.UserID()
	if !ok || len(summaries) == 0 {
		return summaries, nil
	}

	ids := make([]uint, 0, len(summaries))
	for i := range summaries {
		ids = append(ids, summaries[i].ID)
	}

	followed, err := s.followRepo.FollowedIDSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.FollowerIDSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	for i := range summaries {
		id := summaries[i].ID
		_, summaries[i].IsFollowedByMe = followed[id]
		_, summaries[i].FollowsMe = followers[id]
		summaries[i].IsMe = id == viewerID
	}
	return summaries, nil
}
