// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"io"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. The request is multipart/form-data with
// an "image" file part and an optional "caption" field.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded image"))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:       userID,
		Caption:      c.FormValue("caption"),
		Filename:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		ImageContent: content,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id, s.viewer(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePage(c, models.DefaultPageLimit)

	posts, meta, err := s.postService.GetUserPosts(c.UserContext(), id, page, s.viewer(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return pageResponse(c, posts, meta)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), userID, postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePage(c, models.DefaultPageLimit)

	posts, meta, err := s.feedService.GetFeed(c.UserContext(), userID, page)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return pageResponse(c, posts, meta)
}

// GetSavedPosts handles GET /api/me/saved
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePage(c, models.DefaultPageLimit)

	posts, meta, err := s.postService.ListSaved(c.UserContext(), userID, page)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return pageResponse(c, posts, meta)
}

// GetLikedPosts handles GET /api/me/likes
func (s *Server) GetLikedPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePage(c, models.DefaultPageLimit)

	posts, meta, err := s.postService.ListLiked(c.UserContext(), userID, page)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return pageResponse(c, posts, meta)
}
