package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripple/internal/models"
)

func TestFollowService_Follow(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopUserRepo(), nil)

	state, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, state.Following)
	assert.True(t, state.Changed)
}

func TestFollowService_FollowSelfRejected(t *testing.T) {
	follows := noopFollowRepo()
	follows.upsertFn = func(_ context.Context, _, _ uint) (bool, error) {
		t.Fatal("upsert should not be reached")
		return false, nil
	}
	svc := NewFollowService(follows, noopUserRepo(), nil)

	_, err := svc.Follow(context.Background(), 7, 7)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeInvalidOperation, appErr.Code)
}

func TestFollowService_FollowMissingTarget(t *testing.T) {
	users := noopUserRepo()
	users.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
	svc := NewFollowService(noopFollowRepo(), users, nil)

	_, err := svc.Follow(context.Background(), 1, 99)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestFollowService_FollowRepeatReportsNoChange(t *testing.T) {
	follows := noopFollowRepo()
	follows.upsertFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
	svc := NewFollowService(follows, noopUserRepo(), nil)

	state, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, state.Following)
	assert.False(t, state.Changed)
}

func TestFollowService_Unfollow(t *testing.T) {
	var gotFollower, gotFollowing uint
	follows := noopFollowRepo()
	follows.deleteFn = func(_ context.Context, followerID, followingID uint) (bool, error) {
		gotFollower, gotFollowing = followerID, followingID
		return true, nil
	}
	svc := NewFollowService(follows, noopUserRepo(), nil)

	state, err := svc.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, state.Following)
	assert.True(t, state.Changed)
	assert.Equal(t, uint(1), gotFollower)
	assert.Equal(t, uint(2), gotFollowing)
}

func TestFollowService_UnfollowWithoutEdgeIsNoop(t *testing.T) {
	follows := noopFollowRepo()
	follows.deleteFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
	svc := NewFollowService(follows, noopUserRepo(), nil)

	state, err := svc.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, state.Following)
	assert.False(t, state.Changed)
}

func TestFollowService_UnfollowSelfIsNoop(t *testing.T) {
	follows := noopFollowRepo()
	follows.deleteFn = func(_ context.Context, _, _ uint) (bool, error) {
		t.Fatal("delete should not be reached")
		return false, nil
	}
	svc := NewFollowService(follows, noopUserRepo(), nil)

	state, err := svc.Unfollow(context.Background(), 7, 7)
	require.NoError(t, err)
	assert.False(t, state.Following)
	assert.False(t, state.Changed)
}

func TestFollowService_UnfollowMissingTargetIsNoop(t *testing.T) {
	users := noopUserRepo()
	users.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
	follows := noopFollowRepo()
	follows.deleteFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
	svc := NewFollowService(follows, users, nil)

	state, err := svc.Unfollow(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.False(t, state.Following)
	assert.False(t, state.Changed)
}

func TestFollowService_ListFollowersAnnotatesViewer(t *testing.T) {
	alice := models.User{Username: "alice"}
	alice.ID = 2
	bob := models.User{Username: "bob"}
	bob.ID = 3

	follows := noopFollowRepo()
	follows.listFollowersFn = func(_ context.Context, _ uint, _, _ int) ([]models.User, int64, error) {
		return []models.User{alice, bob}, 2, nil
	}
	follows.followedSetFn = func(_ context.Context, _ uint, _ []uint) (map[uint]struct{}, error) {
		return map[uint]struct{}{2: {}}, nil
	}
	follows.followerSetFn = func(_ context.Context, _ uint, _ []uint) (map[uint]struct{}, error) {
		return map[uint]struct{}{3: {}}, nil
	}
	svc := NewFollowService(follows, noopUserRepo(), nil)

	page := models.NewPageRequest(1, 20, models.DefaultPageLimit)
	summaries, meta, err := svc.ListFollowers(context.Background(), 1, page, models.ViewerFor(9))
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.True(t, summaries[0].IsFollowedByMe)
	assert.False(t, summaries[0].FollowsMe)
	assert.False(t, summaries[1].IsFollowedByMe)
	assert.True(t, summaries[1].FollowsMe)
	assert.Equal(t, int64(2), meta.Total)
}

func TestFollowService_ListFollowingMissingUser(t *testing.T) {
	users := noopUserRepo()
	users.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
	svc := NewFollowService(noopFollowRepo(), users, nil)

	page := models.NewPageRequest(1, 20, models.DefaultPageLimit)
	_, _, err := svc.ListFollowing(context.Background(), 42, page, models.Anonymous)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestFollowService_FollowPropagatesRepoError(t *testing.T) {
	follows := noopFollowRepo()
	follows.upsertFn = func(_ context.Context, _, _ uint) (bool, error) {
		return false, errors.New("connection reset")
	}
	svc := NewFollowService(follows, noopUserRepo(), nil)

	_, err := svc.Follow(context.Background(), 1, 2)
	assert.Error(t, err)
}
