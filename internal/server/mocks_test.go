package server

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, query, limit, offset)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, viewer models.Viewer) (*models.Post, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewer models.Viewer) ([]*models.Post, int64, error) {
	args := m.Called(ctx, userID, limit, offset, viewer)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int, viewer models.Viewer) ([]*models.Post, int64, error) {
	args := m.Called(ctx, authorIDs, limit, offset, viewer)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ListSavedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFollowRepository is a mock of the FollowRepository interface
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Upsert(ctx context.Context, followerID, followingID uint) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockFollowRepository) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockFollowRepository) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockFollowRepository) FollowedIDSet(ctx context.Context, viewerID uint, userIDs []uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, viewerID, userIDs)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

func (m *MockFollowRepository) FollowerIDSet(ctx context.Context, viewerID uint, userIDs []uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, viewerID, userIDs)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

// MockReactionRepository is a mock of the ReactionRepository interface
type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Like(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeState), args.Error(1)
}

func (m *MockReactionRepository) Unlike(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LikeState), args.Error(1)
}

func (m *MockReactionRepository) Save(ctx context.Context, userID, postID uint) (*models.SaveState, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SaveState), args.Error(1)
}

func (m *MockReactionRepository) Unsave(ctx context.Context, userID, postID uint) (*models.SaveState, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SaveState), args.Error(1)
}

func (m *MockReactionRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, userID, postIDs)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

func (m *MockReactionRepository) SavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]struct{}, error) {
	args := m.Called(ctx, userID, postIDs)
	return args.Get(0).(map[uint]struct{}), args.Error(1)
}

func (m *MockReactionRepository) ListLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, int64, error) {
	args := m.Called(ctx, postID, limit, offset)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, int64, error) {
	args := m.Called(ctx, postID, limit, offset)
	return args.Get(0).([]*models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileRepository is a mock of the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Counts(ctx context.Context, userID uint) (*repository.ProfileCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ProfileCounts), args.Error(1)
}

// MockImageStore is a mock of the media.ImageStore interface
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Store(filename, contentType string, content []byte) (string, error) {
	args := m.Called(filename, contentType, content)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Remove(url string) error {
	args := m.Called(url)
	return args.Error(0)
}
