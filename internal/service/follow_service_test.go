package service

import (
	"context"
	"testing"

	"flock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoUserRepo(a, b *models.User) *userRepoStub {
	byID := map[uint]*models.User{a.ID: a, b.ID: b}
	byName := map[string]*models.User{a.Username: a, b.Username: b}
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			if u, ok := byID[id]; ok {
				copied := *u
				return &copied, nil
			}
			return nil, models.NewNotFoundError("user", "")
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			if u, ok := byName[username]; ok {
				copied := *u
				return &copied, nil
			}
			return nil, nil
		},
		createFn:             func(_ context.Context, _ *models.User) error { return nil },
		updateFn:             func(_ context.Context, _ *models.User) error { return nil },
		incrementPostCountFn: func(_ context.Context, _ uint) error { return nil },
		listFn:               func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func TestFollowService_Follow(t *testing.T) {
	ctx := context.Background()
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}

	t.Run("creates the relationship", func(t *testing.T) {
		var created *models.Follow
		followRepo := noopFollowRepo()
		followRepo.createFn = func(_ context.Context, f *models.Follow) error {
			created = f
			return nil
		}
		svc := NewFollowService(followRepo, twoUserRepo(alice, bob), alwaysLoggedIn{})

		require.NoError(t, svc.Follow(ctx, 2, "alice"))
		require.NotNil(t, created)
		assert.Equal(t, uint(2), created.FollowerID)
		assert.Equal(t, uint(1), created.FollowedID)
	})

	t.Run("following again is a no-op", func(t *testing.T) {
		followRepo := noopFollowRepo()
		followRepo.existsFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
		followRepo.createFn = func(_ context.Context, _ *models.Follow) error {
			t.Fatal("Create called for an existing follow")
			return nil
		}
		svc := NewFollowService(followRepo, twoUserRepo(alice, bob), alwaysLoggedIn{})

		assert.NoError(t, svc.Follow(ctx, 2, "alice"))
	})

	t.Run("cannot follow yourself", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), twoUserRepo(alice, bob), alwaysLoggedIn{})

		err := svc.Follow(ctx, 1, "alice")
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("unknown target", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), twoUserRepo(alice, bob), alwaysLoggedIn{})

		err := svc.Follow(ctx, 1, "nobody")
		assert.Equal(t, models.CodeUserNotFound, models.ErrorCode(err))
	})

	t.Run("requires a session", func(t *testing.T) {
		sessions := sessionCheckerFunc(func(uint) error { return models.NewNotLoggedInError() })
		svc := NewFollowService(noopFollowRepo(), twoUserRepo(alice, bob), sessions)

		err := svc.Follow(ctx, 2, "alice")
		assert.Equal(t, models.CodeNotLoggedIn, models.ErrorCode(err))
	})
}

func TestFollowService_Unfollow(t *testing.T) {
	ctx := context.Background()
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}

	t.Run("removes the relationship", func(t *testing.T) {
		deleted := false
		followRepo := noopFollowRepo()
		followRepo.existsFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
		followRepo.deleteFn = func(_ context.Context, followerID, followedID uint) error {
			deleted = true
			assert.Equal(t, uint(2), followerID)
			assert.Equal(t, uint(1), followedID)
			return nil
		}
		svc := NewFollowService(followRepo, twoUserRepo(alice, bob), alwaysLoggedIn{})

		require.NoError(t, svc.Unfollow(ctx, 2, "alice"))
		assert.True(t, deleted)
	})

	t.Run("unfollowing someone you do not follow is illegal", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), twoUserRepo(alice, bob), alwaysLoggedIn{})

		err := svc.Unfollow(ctx, 2, "alice")
		assert.Equal(t, models.CodeIllegalOperation, models.ErrorCode(err))
	})
}

func TestFollowService_Followers(t *testing.T) {
	ctx := context.Background()
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}

	followRepo := noopFollowRepo()
	followRepo.followersFn = func(_ context.Context, followedID uint) ([]models.User, error) {
		assert.Equal(t, uint(1), followedID)
		return []models.User{*bob}, nil
	}
	svc := NewFollowService(followRepo, twoUserRepo(alice, bob), alwaysLoggedIn{})

	followers, err := svc.Followers(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].Username)

	_, err = svc.Followers(ctx, "nobody")
	assert.Equal(t, models.CodeUserNotFound, models.ErrorCode(err))
}
