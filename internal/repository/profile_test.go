package repository

import (
	"context"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_Counts(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	ada := mustCreateUser(t, db, "ada")
	grace := mustCreateUser(t, db, "grace")
	linus := mustCreateUser(t, db, "linus")

	first := mustCreatePost(t, db, ada.ID, "first")
	second := mustCreatePost(t, db, ada.ID, "second")

	// grace and linus follow ada; ada follows grace.
	require.NoError(t, db.Create(&models.Follow{FollowerID: grace.ID, FollowingID: ada.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: linus.ID, FollowingID: ada.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: ada.ID, FollowingID: grace.ID}).Error)

	_, err := reactions.Like(ctx, grace.ID, first.ID)
	require.NoError(t, err)
	_, err = reactions.Like(ctx, linus.ID, first.ID)
	require.NoError(t, err)
	_, err = reactions.Like(ctx, grace.ID, second.ID)
	require.NoError(t, err)

	counts, err := repo.Counts(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Posts)
	assert.Equal(t, int64(2), counts.Followers)
	assert.Equal(t, int64(1), counts.Following)
	assert.Equal(t, int64(3), counts.LikesReceived)
}

func TestProfileRepository_LikesReceivedIgnoresDeletedPosts(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)
	reactions := NewReactionRepository(db)
	posts := NewPostRepository(db, reactions)
	ctx := context.Background()

	ada := mustCreateUser(t, db, "ada")
	grace := mustCreateUser(t, db, "grace")

	keep := mustCreatePost(t, db, ada.ID, "keep")
	drop := mustCreatePost(t, db, ada.ID, "drop")

	_, err := reactions.Like(ctx, grace.ID, keep.ID)
	require.NoError(t, err)
	_, err = reactions.Like(ctx, grace.ID, drop.ID)
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, drop.ID))

	counts, err := repo.Counts(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Posts)
	assert.Equal(t, int64(1), counts.LikesReceived)
}

func TestProfileRepository_EmptyUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepository(db)

	ada := mustCreateUser(t, db, "ada")

	counts, err := repo.Counts(context.Background(), ada.ID)
	require.NoError(t, err)
	assert.Zero(t, counts.Posts)
	assert.Zero(t, counts.Followers)
	assert.Zero(t, counts.Following)
	assert.Zero(t, counts.LikesReceived)
}
