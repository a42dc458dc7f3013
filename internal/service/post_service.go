package service

import (
	"context"
	"fmt"
	"log/slog"

	"flock/internal/cache"
	"flock/internal/middleware"
	"flock/internal/models"
	"flock/internal/repository"
	"flock/internal/validation"
)

// PostService manages post publication and the interactions on a post.
type PostService struct {
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	sessions    SessionChecker
	notificator *Notificator
	logger      *slog.Logger
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	sessions SessionChecker,
	notificator *Notificator,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		sessions:    sessions,
		notificator: notificator,
		logger:      middleware.Logger,
	}
}

// Publish creates a post of the requested variant and notifies every
// follower of the author before returning. The returned post carries the
// author so callers can render its headline.
func (s *PostService) Publish(ctx context.Context, authorID uint, in PublishPostInput) (*models.Post, error) {
	if err := s.sessions.RequireLoggedIn(ctx, authorID); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("user", fmt.Sprintf("%d", authorID))
	}

	post, err := buildPost(author, in)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	if err := s.userRepo.IncrementPostCount(ctx, authorID); err != nil {
		return nil, err
	}
	post.User = *author

	// Followers are notified synchronously; the post is only returned once
	// every follower has the notification.
	message := fmt.Sprintf("%s has a new post", author.Username)
	if err := s.notificator.NotifyFollowers(ctx, author, message, false); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "post published",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.String("type", post.Type),
		slog.String("author", author.Username),
	)
	return post, nil
}

// Like records that the actor liked the post. Liking a post twice is a
// no-op; the first like notifies the post's creator.
func (s *PostService) Like(ctx context.Context, actorID, postID uint) error {
	if err := s.sessions.RequireLoggedIn(ctx, actorID); err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return err
	}

	liked, err := s.postRepo.HasLiked(ctx, actorID, postID)
	if err != nil {
		return err
	}
	if liked {
		return nil
	}

	if err := s.postRepo.CreateLike(ctx, actorID, postID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("%s liked your post", actor.Username)
	return s.notificator.NotifyUser(ctx, &post.User, actorID, message, true, "")
}

// Comment stores a comment on the post and notifies the post's creator.
// Unlike likes, comments are never deduplicated.
func (s *PostService) Comment(ctx context.Context, actorID, postID uint, text string) (*models.Comment, error) {
	if err := s.sessions.RequireLoggedIn(ctx, actorID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, models.NewValidationError("Comment text cannot be empty")
	}

	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: text,
		UserID:  actorID,
		PostID:  postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, postID)

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	comment.User = *actor

	// The comment text appears in the status line only; the stored
	// notification message stays without it.
	message := fmt.Sprintf("%s commented on your post", actor.Username)
	if err := s.notificator.NotifyUser(ctx, &post.User, actorID, message, true, ": "+text); err != nil {
		return nil, err
	}
	return comment, nil
}

// Discount lowers the price of a sale post by the given percentage. The
// request must carry the creator's password; discounting a sold product is
// an illegal operation.
func (s *PostService) Discount(ctx context.Context, actorID, postID uint, pct float64, password string) (*models.Post, error) {
	if err := s.sessions.RequireLoggedIn(ctx, actorID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if post.Type != models.PostTypeSale {
		return nil, models.NewValidationError("Only sale posts can be discounted")
	}
	if post.Sold {
		return nil, models.NewIllegalOperationError("Product is already sold")
	}
	if err := validation.ValidateDiscount(pct); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	creator, err := s.userRepo.GetByID(ctx, post.UserID)
	if err != nil {
		return nil, err
	}
	if !ComparePassword(creator, password) {
		return nil, models.NewInvalidCredentialsError()
	}

	post.Price = post.Price * (1 - pct/100)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, postID)

	s.logger.InfoContext(ctx, "discount",
		slog.String("seller", creator.Username),
		slog.Float64("new_price", post.Price),
	)
	return post, nil
}

// MarkSold marks a sale post as sold. The request must carry the creator's
// password; marking an already sold product is a no-op.
func (s *PostService) MarkSold(ctx context.Context, actorID, postID uint, password string) (*models.Post, error) {
	if err := s.sessions.RequireLoggedIn(ctx, actorID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if post.Type != models.PostTypeSale {
		return nil, models.NewValidationError("Only sale posts can be sold")
	}

	creator, err := s.userRepo.GetByID(ctx, post.UserID)
	if err != nil {
		return nil, err
	}
	if !ComparePassword(creator, password) {
		return nil, models.NewInvalidCredentialsError()
	}
	if post.Sold {
		return post, nil
	}

	post.Sold = true
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, postID)

	s.logger.InfoContext(ctx, "sold",
		slog.String("seller", creator.Username),
		slog.String("product", post.ProductName),
	)
	return post, nil
}

// Get returns a single post with its interaction counts.
func (s *PostService) Get(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// List returns the newest posts across the network.
func (s *PostService) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

// ListByUser returns the newest posts published by the given user.
func (s *PostService) ListByUser(ctx context.Context, username string, limit, offset int) ([]*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUserNotFoundError(username)
	}
	return s.postRepo.GetByUserID(ctx, user.ID, limit, offset)
}

// Comments returns a post's comments in creation order.
func (s *PostService) Comments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByPostID(ctx, postID, limit, offset)
}
