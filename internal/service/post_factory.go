package service

import (
	"fmt"
	"strings"

	"flock/internal/models"
	"flock/internal/validation"
)

// PublishPostInput carries the fields for any post variant. Only the fields
// for the requested type are consulted.
type PublishPostInput struct {
	Type        string  `json:"type"`
	Content     string  `json:"content"`
	ImageURL    string  `json:"image_url"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	City        string  `json:"city"`
}

// buildPost validates the input for its type tag and returns an unsaved Post.
// Unknown type tags are a validation error.
func buildPost(author *models.User, in PublishPostInput) (*models.Post, error) {
	postType := strings.ToLower(in.Type)
	if err := validation.ValidatePostType(postType); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Type:   postType,
		UserID: author.ID,
	}

	switch postType {
	case models.PostTypeText:
		if strings.TrimSpace(in.Content) == "" {
			return nil, models.NewValidationError("Text post requires content")
		}
		post.Content = in.Content
	case models.PostTypeImage:
		if strings.TrimSpace(in.ImageURL) == "" {
			return nil, models.NewValidationError("Image post requires an image")
		}
		post.ImageURL = in.ImageURL
	case models.PostTypeSale:
		if strings.TrimSpace(in.ProductName) == "" {
			return nil, models.NewValidationError("Sale post requires a product name")
		}
		if in.Price < 0 {
			return nil, models.NewValidationError(fmt.Sprintf("Invalid price: %v", in.Price))
		}
		post.ProductName = in.ProductName
		post.Price = in.Price
		post.City = in.City
	}

	return post, nil
}
