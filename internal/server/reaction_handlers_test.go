package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReactionTestServer(reactions *MockReactionRepository, posts *MockPostRepository, follows *MockFollowRepository, users *MockUserRepository) *Server {
	s := &Server{
		config:       &config.Config{JWTSecret: "test_secret"},
		reactionRepo: reactions,
		postRepo:     posts,
	}
	s.reactionService = service.NewReactionService(reactions, posts, follows, users, nil)
	return s
}

func TestLikePostHandler(t *testing.T) {
	mockReactions := new(MockReactionRepository)
	s := newReactionTestServer(mockReactions, new(MockPostRepository), new(MockFollowRepository), new(MockUserRepository))

	app := fiber.New()
	withTestUser(app, 3)
	app.Post("/posts/:id/like", s.LikePost)
	app.Delete("/posts/:id/like", s.UnlikePost)

	t.Run("Like", func(t *testing.T) {
		mockReactions.On("Like", mock.Anything, uint(3), uint(7)).
			Return(&models.LikeState{Liked: true, LikeCount: 5, Changed: true}, nil)

		req := httptest.NewRequest(http.MethodPost, "/posts/7/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, true, payload["likedByMe"])
		assert.Equal(t, float64(5), payload["likes_count"])
	})

	t.Run("Unlike", func(t *testing.T) {
		mockReactions.On("Unlike", mock.Anything, uint(3), uint(7)).
			Return(&models.LikeState{Liked: false, LikeCount: 4, Changed: true}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/posts/7/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, false, payload["likedByMe"])
		assert.Equal(t, float64(4), payload["likes_count"])
	})

	t.Run("Missing Post", func(t *testing.T) {
		mockReactions.On("Like", mock.Anything, uint(3), uint(99)).
			Return(nil, models.NewNotFoundError("Post", 99))

		req := httptest.NewRequest(http.MethodPost, "/posts/99/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/posts/abc/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSavePostHandler(t *testing.T) {
	mockReactions := new(MockReactionRepository)
	s := newReactionTestServer(mockReactions, new(MockPostRepository), new(MockFollowRepository), new(MockUserRepository))

	app := fiber.New()
	withTestUser(app, 3)
	app.Post("/posts/:id/save", s.SavePost)
	app.Delete("/posts/:id/save", s.UnsavePost)

	mockReactions.On("Save", mock.Anything, uint(3), uint(7)).
		Return(&models.SaveState{Saved: true, Changed: true}, nil)
	mockReactions.On("Unsave", mock.Anything, uint(3), uint(7)).
		Return(&models.SaveState{Saved: false, Changed: true}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/7/save", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	assert.Equal(t, true, payload["savedByMe"])

	resp2, err := app.Test(httptest.NewRequest(http.MethodDelete, "/posts/7/save", nil))
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	payload = nil
	_ = json.NewDecoder(resp2.Body).Decode(&payload)
	assert.Equal(t, false, payload["savedByMe"])
}

func TestGetPostLikersHandler(t *testing.T) {
	mockReactions := new(MockReactionRepository)
	mockFollows := new(MockFollowRepository)
	s := newReactionTestServer(mockReactions, new(MockPostRepository), mockFollows, new(MockUserRepository))

	app := fiber.New()
	app.Get("/posts/:id/likes", s.GetPostLikers)

	alice := models.User{Username: "alice", Name: "Alice"}
	alice.ID = 2
	mockReactions.On("ListLikers", mock.Anything, uint(7), 20, 0).
		Return([]models.User{alice}, int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/posts/7/likes", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Items      []models.UserSummary `json:"items"`
		Pagination models.PageMeta      `json:"pagination"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "alice", payload.Items[0].Username)
	assert.False(t, payload.Items[0].IsFollowedByMe)
	assert.Equal(t, int64(1), payload.Pagination.Total)
	mockFollows.AssertNotCalled(t, "FollowedIDSet", mock.Anything, mock.Anything, mock.Anything)
}
