package service

import (
	"context"
	"sync"

	"flock/internal/models"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByUsernameFn      func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User) error
	updateFn             func(context.Context, *models.User) error
	incrementPostCountFn func(context.Context, uint) error
	listFn               func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) IncrementPostCount(ctx context.Context, id uint) error {
	return s.incrementPostCountFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

// memoryUserRepo is an in-memory repository.UserRepository used where tests
// exercise whole flows rather than single calls.
type memoryUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]*models.User)}
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, models.NewNotFoundError("user", "")
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return models.NewUsernameTakenError(user.Username)
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepo) IncrementPostCount(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		user.PostCount++
	}
	return nil
}

func (r *memoryUserRepo) List(_ context.Context, _, _ int) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn         func(context.Context, *models.Follow) error
	existsFn         func(context.Context, uint, uint) (bool, error)
	deleteFn         func(context.Context, uint, uint) error
	followersFn      func(context.Context, uint) ([]models.User, error)
	countFollowersFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followedID uint) error {
	return s.deleteFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Followers(ctx context.Context, followedID uint) ([]models.User, error) {
	return s.followersFn(ctx, followedID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, followedID uint) (int64, error) {
	return s.countFollowersFn(ctx, followedID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(_ context.Context, _ *models.Follow) error { return nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		deleteFn:         func(_ context.Context, _, _ uint) error { return nil },
		followersFn:      func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn func(context.Context, uint, int, int) ([]*models.Post, error)
	listFn        func(context.Context, int, int) ([]*models.Post, error)
	updateFn      func(context.Context, *models.Post) error
	hasLikedFn    func(context.Context, uint, uint) (bool, error)
	createLikeFn  func(context.Context, uint, uint) error
	countLikesFn  func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.hasLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) CreateLike(ctx context.Context, userID, postID uint) error {
	return s.createLikeFn(ctx, userID, postID)
}
func (s *postRepoStub) CountLikes(ctx context.Context, postID uint) (int64, error) {
	return s.countLikesFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:     func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) { return nil, nil },
		listFn:        func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		hasLikedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		createLikeFn:  func(_ context.Context, _, _ uint) error { return nil },
		countLikesFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByPostIDFn func(context.Context, uint, int, int) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByPostID(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	return s.getByPostIDFn(ctx, postID, limit, offset)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByPostIDFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, error) { return nil, nil },
	}
}

// notificationRepoStub is a stub for repository.NotificationRepository.
type notificationRepoStub struct {
	createFn          func(context.Context, *models.Notification) error
	listByRecipientFn func(context.Context, uint, int, int) ([]models.Notification, error)
	countUnreadFn     func(context.Context, uint) (int64, error)
	markAllReadFn     func(context.Context, uint) error
}

func (s *notificationRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	return s.createFn(ctx, notification)
}
func (s *notificationRepoStub) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.countUnreadFn(ctx, recipientID)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.markAllReadFn(ctx, recipientID)
}

// inboxRecorder collects created notifications in order.
type inboxRecorder struct {
	mu      sync.Mutex
	created []models.Notification
}

func (r *inboxRecorder) repo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn: func(_ context.Context, n *models.Notification) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.created = append(r.created, *n)
			return nil
		},
		listByRecipientFn: func(_ context.Context, recipientID uint, _, _ int) ([]models.Notification, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			var out []models.Notification
			for _, n := range r.created {
				if n.RecipientID == recipientID {
					out = append(out, n)
				}
			}
			return out, nil
		},
		countUnreadFn: func(_ context.Context, recipientID uint) (int64, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			var count int64
			for _, n := range r.created {
				if n.RecipientID == recipientID && !n.IsRead {
					count++
				}
			}
			return count, nil
		},
		markAllReadFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// alwaysLoggedIn satisfies SessionChecker for tests that do not exercise
// session state.
type alwaysLoggedIn struct{}

func (alwaysLoggedIn) IsLoggedIn(_ context.Context, _ uint) (bool, error) { return true, nil }
func (alwaysLoggedIn) RequireLoggedIn(_ context.Context, _ uint) error    { return nil }
