// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"io"
	"strings"

	"flock/internal/models"
	"flock/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.PublishPostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Publish(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"post":     post,
		"headline": post.Headline(),
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	posts, err := s.postService.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetUserPosts handles GET /api/users/:username/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	p := parsePagination(c, 20)
	posts, err := s.postService.ListByUser(c.UserContext(), username, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Like(c.UserContext(), currentUserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post liked"})
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.Comment(c.UserContext(), currentUserID(c), postID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 50)
	comments, err := s.postService.Comments(c.UserContext(), postID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// DiscountPost handles POST /api/posts/:id/discount
func (s *Server) DiscountPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Percent  float64 `json:"percent"`
		Password string  `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Discount(c.UserContext(), currentUserID(c), postID, req.Percent, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"post":     post,
		"headline": post.Headline(),
	})
}

// MarkPostSold handles POST /api/posts/:id/sold
func (s *Server) MarkPostSold(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.MarkSold(c.UserContext(), currentUserID(c), postID, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"post":     post,
		"headline": post.Headline(),
	})
}

// UploadImage handles POST /api/images
func (s *Server) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	name, err := s.imageService.Save(content)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"image_url": "/api/images/" + name,
	})
}

// ServeImage handles GET /api/images/:name
func (s *Server) ServeImage(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	data, err := s.imageService.Load(name)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/webp")
	return c.Send(data)
}

// ServePostImage handles GET /api/posts/:id/image. It resolves the image
// behind an image post, so clients can display a post without parsing its
// image URL.
func (s *Server) ServePostImage(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if post.Type != models.PostTypeImage || post.ImageURL == "" {
		return respondError(c, models.NewNotFoundError("image for post", postID))
	}

	// Locally stored uploads carry the /api/images/ prefix; anything else is
	// an external URL the client must fetch itself.
	name, ok := strings.CutPrefix(post.ImageURL, "/api/images/")
	if !ok {
		return c.Redirect(post.ImageURL, fiber.StatusFound)
	}

	data, err := s.imageService.Load(name)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/webp")
	return c.Send(data)
}
