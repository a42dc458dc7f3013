// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"strings"

	"flock/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	user, err := s.userRepo.GetByUsername(c.UserContext(), username)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return respondError(c, models.NewUserNotFoundError(username))
	}

	followerCount, err := s.followRepo.CountFollowers(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	user.FollowerCount = int(followerCount)

	return c.JSON(user)
}

// GetFollowers handles GET /api/users/:username/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	followers, err := s.followService.Followers(c.UserContext(), username)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"followers": followers,
		"count":     len(followers),
	})
}

// Follow handles POST /api/users/:username/follow
func (s *Server) Follow(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	if err := s.followService.Follow(c.UserContext(), currentUserID(c), username); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Following " + username})
}

// Unfollow handles DELETE /api/users/:username/follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), username); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed " + username})
}
