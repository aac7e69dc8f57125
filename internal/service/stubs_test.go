package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	searchFn        func(context.Context, string, int, int) ([]models.User, int64, error)
	existsFn        func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.User, int64, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{Username: "someone"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		searchFn: func(_ context.Context, _ string, _, _ int) ([]models.User, int64, error) {
			return nil, 0, nil
		},
		existsFn: func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	upsertFn        func(context.Context, uint, uint) (bool, error)
	deleteFn        func(context.Context, uint, uint) (bool, error)
	existsFn        func(context.Context, uint, uint) (bool, error)
	followingIDsFn  func(context.Context, uint) ([]uint, error)
	listFollowersFn func(context.Context, uint, int, int) ([]models.User, int64, error)
	listFollowingFn func(context.Context, uint, int, int) ([]models.User, int64, error)
	followedSetFn   func(context.Context, uint, []uint) (map[uint]struct{}, error)
	followerSetFn   func(context.Context, uint, []uint) (map[uint]struct{}, error)
}

func (s *followRepoStub) Upsert(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.upsertFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, followerID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	return s.listFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	return s.listFollowingFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) FollowedIDSet(ctx context.Context, viewerID uint, userIDs []uint) (map[uint]struct{}, error) {
	return s.followedSetFn(ctx, viewerID, userIDs)
}
func (s *followRepoStub) FollowerIDSet(ctx context.Context, viewerID uint, userIDs []uint) (map[uint]struct{}, error) {
	return s.followerSetFn(ctx, viewerID, userIDs)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		upsertFn:       func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteFn:       func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		existsFn:       func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followingIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		listFollowersFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, int64, error) {
			return nil, 0, nil
		},
		listFollowingFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, int64, error) {
			return nil, 0, nil
		},
		followedSetFn: func(_ context.Context, _ uint, _ []uint) (map[uint]struct{}, error) {
			return map[uint]struct{}{}, nil
		},
		followerSetFn: func(_ context.Context, _ uint, _ []uint) (map[uint]struct{}, error) {
			return map[uint]struct{}{}, nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint, models.Viewer) (*models.Post, error)
	getByUserIDFn   func(context.Context, uint, int, int, models.Viewer) ([]*models.Post, int64, error)
	listByAuthorsFn func(context.Context, []uint, int, int, models.Viewer) ([]*models.Post, int64, error)
	listSavedByFn   func(context.Context, uint, int, int) ([]*models.Post, int64, error)
	listLikedByFn   func(context.Context, uint, int, int) ([]*models.Post, int64, error)
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, viewer models.Viewer) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewer)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewer models.Viewer) ([]*models.Post, int64, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, viewer)
}
func (s *postRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int, viewer models.Viewer) ([]*models.Post, int64, error) {
	return s.listByAuthorsFn(ctx, authorIDs, limit, offset, viewer)
}
func (s *postRepoStub) ListSavedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.listSavedByFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.listLikedByFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint, _ models.Viewer) (*models.Post, error) {
			post := &models.Post{UserID: 1}
			post.ID = id
			return post, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ models.Viewer) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByAuthorsFn: func(_ context.Context, _ []uint, _, _ int, _ models.Viewer) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listSavedByFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listLikedByFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	likeFn         func(context.Context, uint, uint) (*models.LikeState, error)
	unlikeFn       func(context.Context, uint, uint) (*models.LikeState, error)
	saveFn         func(context.Context, uint, uint) (*models.SaveState, error)
	unsaveFn       func(context.Context, uint, uint) (*models.SaveState, error)
	isLikedFn      func(context.Context, uint, uint) (bool, error)
	isSavedFn      func(context.Context, uint, uint) (bool, error)
	likedPostIDsFn func(context.Context, uint, []uint) (map[uint]struct{}, error)
	savedPostIDsFn func(context.Context, uint, []uint) (map[uint]struct{}, error)
	listLikersFn   func(context.Context, uint, int, int) ([]models.User, int64, error)
}

func (s *reactionRepoStub) Like(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *reactionRepoStub) Unlike(ctx context.Context, userID, postID uint) (*models.LikeState, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *reactionRepoStub) Save(ctx context.Context, userID, postID uint) (*models.SaveState, error) {
	return s.saveFn(ctx, userID, postID)
}
func (s *reactionRepoStub) Unsave(ctx context.Context, userID, postID uint) (*models.SaveState, error) {
	return s.unsaveFn(ctx, userID, postID)
}
func (s *reactionRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *reactionRepoStub) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isSavedFn(ctx, userID, postID)
}
func (s *reactionRepoStub) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]struct{}, error) {
	return s.likedPostIDsFn(ctx, userID, postIDs)
}
func (s *reactionRepoStub) SavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]struct{}, error) {
	return s.savedPostIDsFn(ctx, userID, postIDs)
}
func (s *reactionRepoStub) ListLikers(ctx context.Context, postID uint, limit, offset int) ([]models.User, int64, error) {
	return s.listLikersFn(ctx, postID, limit, offset)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		likeFn: func(_ context.Context, _, _ uint) (*models.LikeState, error) {
			return &models.LikeState{Liked: true, LikeCount: 1, Changed: true}, nil
		},
		unlikeFn: func(_ context.Context, _, _ uint) (*models.LikeState, error) {
			return &models.LikeState{Liked: false, LikeCount: 0, Changed: true}, nil
		},
		saveFn: func(_ context.Context, _, _ uint) (*models.SaveState, error) {
			return &models.SaveState{Saved: true, Changed: true}, nil
		},
		unsaveFn: func(_ context.Context, _, _ uint) (*models.SaveState, error) {
			return &models.SaveState{Saved: false, Changed: true}, nil
		},
		isLikedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		isSavedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likedPostIDsFn: func(_ context.Context, _ uint, _ []uint) (map[uint]struct{}, error) {
			return map[uint]struct{}{}, nil
		},
		savedPostIDsFn: func(_ context.Context, _ uint, _ []uint) (map[uint]struct{}, error) {
			return map[uint]struct{}{}, nil
		},
		listLikersFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, int64, error) {
			return nil, 0, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, int64, error)
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			c := &models.Comment{UserID: 1, PostID: 1, Content: "hi"}
			c.ID = id
			return c, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	countsFn func(context.Context, uint) (*repository.ProfileCounts, error)
}

func (s *profileRepoStub) Counts(ctx context.Context, userID uint) (*repository.ProfileCounts, error) {
	return s.countsFn(ctx, userID)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		countsFn: func(_ context.Context, _ uint) (*repository.ProfileCounts, error) {
			return &repository.ProfileCounts{}, nil
		},
	}
}

// imageStoreStub is a stub for media.ImageStore.
type imageStoreStub struct {
	storeFn  func(string, string, []byte) (string, error)
	removeFn func(string) error
}

func (s *imageStoreStub) Store(filename, contentType string, content []byte) (string, error) {
	return s.storeFn(filename, contentType, content)
}
func (s *imageStoreStub) Remove(url string) error {
	return s.removeFn(url)
}

func noopImageStore() *imageStoreStub {
	return &imageStoreStub{
		storeFn:  func(_, _ string, _ []byte) (string, error) { return "/uploads/test.jpg", nil },
		removeFn: func(_ string) error { return nil },
	}
}
