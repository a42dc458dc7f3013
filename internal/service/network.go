// Package service implements the application's business rules.
package service

import (
	"context"
	"log/slog"

	"flock/internal/middleware"
	"flock/internal/models"
	"flock/internal/repository"
	"flock/internal/session"
	"flock/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// SessionChecker is the login-state capability handed to the other services.
// Only the Network mutates the logged-in set; everyone else just asks.
type SessionChecker interface {
	IsLoggedIn(ctx context.Context, userID uint) (bool, error)
	RequireLoggedIn(ctx context.Context, userID uint) error
}

// Network is the process-wide user registry and session authority. It is
// constructed exactly once during bootstrap and passed to its consumers;
// there is no hidden global instance.
type Network struct {
	name     string
	userRepo repository.UserRepository
	sessions session.Store
	logger   *slog.Logger
}

// NewNetwork creates the social network registry with the given name.
func NewNetwork(name string, userRepo repository.UserRepository, sessions session.Store) *Network {
	n := &Network{
		name:     name,
		userRepo: userRepo,
		sessions: sessions,
		logger:   middleware.Logger,
	}
	n.logger.Info("social network created", slog.String("name", name))
	return n
}

// Name returns the network's display name.
func (n *Network) Name() string {
	return n.name
}

// SignUp registers a new user and marks them logged in. The username must be
// unused and the password must satisfy the 4-8 character policy.
func (n *Network) SignUp(ctx context.Context, username, password string) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := n.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewUsernameTakenError(username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashed),
	}
	if err := n.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// A fresh account starts its first session immediately.
	if err := n.sessions.Add(ctx, user.ID); err != nil {
		return nil, models.NewInternalError(err)
	}

	n.logger.InfoContext(ctx, "user signed up", slog.String("username", username))
	return user, nil
}

// LogIn adds the user to the logged-in set after verifying credentials.
// An unknown username and a wrong password are indistinguishable to the caller.
func (n *Network) LogIn(ctx context.Context, username, password string) (*models.User, error) {
	user, err := n.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !ComparePassword(user, password) {
		return nil, models.NewInvalidCredentialsError()
	}

	if err := n.sessions.Add(ctx, user.ID); err != nil {
		return nil, models.NewInternalError(err)
	}

	n.logger.InfoContext(ctx, "user connected", slog.String("username", username))
	return user, nil
}

// LogOut removes the user from the logged-in set.
func (n *Network) LogOut(ctx context.Context, username string) error {
	user, err := n.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewUserNotFoundError(username)
	}

	loggedIn, err := n.sessions.Contains(ctx, user.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !loggedIn {
		return models.NewNotLoggedInError()
	}

	if err := n.sessions.Remove(ctx, user.ID); err != nil {
		return models.NewInternalError(err)
	}

	n.logger.InfoContext(ctx, "user disconnected", slog.String("username", username))
	return nil
}

// IsLoggedIn reports whether the user is currently in the logged-in set.
func (n *Network) IsLoggedIn(ctx context.Context, userID uint) (bool, error) {
	loggedIn, err := n.sessions.Contains(ctx, userID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return loggedIn, nil
}

// RequireLoggedIn returns NotLoggedIn unless the user has an active session.
func (n *Network) RequireLoggedIn(ctx context.Context, userID uint) error {
	loggedIn, err := n.IsLoggedIn(ctx, userID)
	if err != nil {
		return err
	}
	if !loggedIn {
		return models.NewNotLoggedInError()
	}
	return nil
}

// ActiveSessions returns how many users are currently logged in.
func (n *Network) ActiveSessions(ctx context.Context) (int64, error) {
	count, err := n.sessions.Count(ctx)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ComparePassword checks a plaintext password against the user's stored hash.
func ComparePassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
