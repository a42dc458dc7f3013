package service

import (
	"context"
	"log/slog"

	"flock/internal/middleware"
	"flock/internal/models"
	"flock/internal/repository"
)

// FollowService manages follower relationships.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	sessions   SessionChecker
	logger     *slog.Logger
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, sessions SessionChecker) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		sessions:   sessions,
		logger:     middleware.Logger,
	}
}

// Follow makes the actor a follower of the target user. Following someone
// you already follow is a no-op (set semantics).
func (s *FollowService) Follow(ctx context.Context, actorID uint, targetUsername string) error {
	if err := s.sessions.RequireLoggedIn(ctx, actorID); err != nil {
		return err
	}

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewUserNotFoundError(targetUsername)
	}
	if target.ID == actorID {
		return models.NewValidationError("Cannot follow yourself")
	}

	exists, err := s.followRepo.Exists(ctx, actorID, target.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.followRepo.Create(ctx, &models.Follow{
		FollowerID: actorID,
		FollowedID: target.ID,
	}); err != nil {
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "follow",
		slog.String("follower", actor.Username),
		slog.String("followed", target.Username),
	)
	return nil
}

// Unfollow removes the actor from the target's follower set. Unfollowing a
// user you do not follow is an illegal operation.
func (s *FollowService) Unfollow(ctx context.Context, actorID uint, targetUsername string) error {
	if err := s.sessions.RequireLoggedIn(ctx, actorID); err != nil {
		return err
	}

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return models.NewUserNotFoundError(targetUsername)
	}

	exists, err := s.followRepo.Exists(ctx, actorID, target.ID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewIllegalOperationError("User is not following the given user")
	}

	if err := s.followRepo.Delete(ctx, actorID, target.ID); err != nil {
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "unfollow",
		slog.String("follower", actor.Username),
		slog.String("followed", target.Username),
	)
	return nil
}

// Followers returns the users following the given user, in follow-creation order.
func (s *FollowService) Followers(ctx context.Context, username string) ([]models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUserNotFoundError(username)
	}
	return s.followRepo.Followers(ctx, user.ID)
}
