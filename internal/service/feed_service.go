package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"
)

// FeedService composes the home timeline on read: posts by the viewer and
// everyone they follow, merged newest first.
type FeedService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
}

func NewFeedService(postRepo repository.PostRepository, followRepo repository.FollowRepository) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		followRepo: followRepo,
	}
}

// GetFeed returns a page of the user's home timeline. The author set always
// includes the user, so their own posts appear without a self-follow edge.
func (s *FeedService) GetFeed(ctx context.Context, userID uint, page models.PageRequest) ([]*models.Post, *models.PageMeta, error) {
	span, ctx := observability.NewSpan(ctx, "feed.compose")
	defer span.End()

	authorIDs, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		span.SetError(err)
		return nil, nil, err
	}

	includesSelf := false
	for _, id := range authorIDs {
		if id == userID {
			includesSelf = true
			break
		}
	}
	if !includesSelf {
		authorIDs = append(authorIDs, userID)
	}
	observability.FeedFanInSize.Observe(float64(len(authorIDs)))
	span.AddAttributes(attribute.Int("feed.author_count", len(authorIDs)))

	posts, total, err := s.postRepo.ListByAuthors(ctx, authorIDs, page.Limit, page.Offset(), models.ViewerFor(userID))
	if err != nil {
		span.SetError(err)
		return nil, nil, err
	}

	meta := models.NewPageMeta(page, total)
	return posts, &meta, nil
}
