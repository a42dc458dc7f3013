// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"

	"flock/internal/models"
)

const (
	PasswordMinLen = 4
	PasswordMaxLen = 8
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidatePassword checks the network's password policy: 4 to 8 characters.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen || len(password) > PasswordMaxLen {
		return fmt.Errorf("password must be %d to %d characters long", PasswordMinLen, PasswordMaxLen)
	}
	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 1 {
		return fmt.Errorf("username is required")
	}

	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}

	return nil
}

// ValidatePostType checks that a post type tag names a known variant.
func ValidatePostType(postType string) error {
	switch postType {
	case models.PostTypeText, models.PostTypeImage, models.PostTypeSale:
		return nil
	}
	return fmt.Errorf("invalid post type %q", postType)
}

// ValidateDiscount checks that a discount percentage is in the range (0, 100].
func ValidateDiscount(pct float64) error {
	if pct <= 0 || pct > 100 {
		return fmt.Errorf("discount must be in the range (0, 100]")
	}
	return nil
}
