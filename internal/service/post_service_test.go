package service

import (
	"context"
	"testing"

	"flock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func newPostServiceForTest(userRepo *userRepoStub, postRepo *postRepoStub, commentRepo *commentRepoStub, followRepo *followRepoStub, inbox *inboxRecorder) *PostService {
	notificator := NewNotificator(inbox.repo(), followRepo, nil)
	return NewPostService(postRepo, userRepo, commentRepo, alwaysLoggedIn{}, notificator)
}

func singleUserRepo(user *models.User) *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			if id == user.ID {
				copied := *user
				return &copied, nil
			}
			return nil, models.NewNotFoundError("user", "")
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			if username == user.Username {
				copied := *user
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

func TestPostService_Publish(t *testing.T) {
	ctx := context.Background()
	author := &models.User{ID: 1, Username: "alice"}

	t.Run("notifies every follower before returning", func(t *testing.T) {
		followers := []models.User{
			{ID: 2, Username: "bob"},
			{ID: 3, Username: "carol"},
			{ID: 4, Username: "dave"},
		}
		followRepo := noopFollowRepo()
		followRepo.followersFn = func(_ context.Context, _ uint) ([]models.User, error) {
			return followers, nil
		}
		inbox := &inboxRecorder{}
		postRepo := noopPostRepo()
		postRepo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 10
			return nil
		}
		svc := newPostServiceForTest(singleUserRepo(author), postRepo, noopCommentRepo(), followRepo, inbox)

		post, err := svc.Publish(ctx, 1, PublishPostInput{Type: "text", Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, models.PostTypeText, post.Type)

		require.Len(t, inbox.created, 3)
		for i, n := range inbox.created {
			assert.Equal(t, followers[i].ID, n.RecipientID, "fan-out follows follower order")
			assert.Equal(t, "alice has a new post", n.Message)
		}
	})

	t.Run("author can publish with no followers", func(t *testing.T) {
		inbox := &inboxRecorder{}
		svc := newPostServiceForTest(singleUserRepo(author), noopPostRepo(), noopCommentRepo(), noopFollowRepo(), inbox)

		_, err := svc.Publish(ctx, 1, PublishPostInput{Type: "text", Content: "hello"})
		require.NoError(t, err)
		assert.Empty(t, inbox.created)
	})

	t.Run("unknown type tag", func(t *testing.T) {
		svc := newPostServiceForTest(singleUserRepo(author), noopPostRepo(), noopCommentRepo(), noopFollowRepo(), &inboxRecorder{})

		_, err := svc.Publish(ctx, 1, PublishPostInput{Type: "poll", Content: "hello"})
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("type tag is case-insensitive", func(t *testing.T) {
		svc := newPostServiceForTest(singleUserRepo(author), noopPostRepo(), noopCommentRepo(), noopFollowRepo(), &inboxRecorder{})

		post, err := svc.Publish(ctx, 1, PublishPostInput{Type: "Sale", ProductName: "lamp", Price: 20, City: "Haifa"})
		require.NoError(t, err)
		assert.Equal(t, models.PostTypeSale, post.Type)
	})

	t.Run("sale post rejects negative price", func(t *testing.T) {
		svc := newPostServiceForTest(singleUserRepo(author), noopPostRepo(), noopCommentRepo(), noopFollowRepo(), &inboxRecorder{})

		_, err := svc.Publish(ctx, 1, PublishPostInput{Type: "sale", ProductName: "lamp", Price: -5})
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("not logged in", func(t *testing.T) {
		notificator := NewNotificator((&inboxRecorder{}).repo(), noopFollowRepo(), nil)
		sessions := sessionCheckerFunc(func(uint) error { return models.NewNotLoggedInError() })
		svc := NewPostService(noopPostRepo(), singleUserRepo(author), noopCommentRepo(), sessions, notificator)

		_, err := svc.Publish(ctx, 1, PublishPostInput{Type: "text", Content: "hello"})
		assert.Equal(t, models.CodeNotLoggedIn, models.ErrorCode(err))
	})
}

// sessionCheckerFunc adapts a function into a SessionChecker.
type sessionCheckerFunc func(userID uint) error

func (f sessionCheckerFunc) IsLoggedIn(_ context.Context, userID uint) (bool, error) {
	return f(userID) == nil, nil
}
func (f sessionCheckerFunc) RequireLoggedIn(_ context.Context, userID uint) error {
	return f(userID)
}

func TestPostService_Like(t *testing.T) {
	ctx := context.Background()
	creator := models.User{ID: 1, Username: "alice"}
	actor := &models.User{ID: 2, Username: "bob"}

	post := &models.Post{ID: 10, Type: models.PostTypeText, UserID: 1, User: creator, Content: "hi"}

	t.Run("first like notifies the creator", func(t *testing.T) {
		inbox := &inboxRecorder{}
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			copied := *post
			return &copied, nil
		}
		likeCalls := 0
		postRepo.createLikeFn = func(_ context.Context, _, _ uint) error {
			likeCalls++
			return nil
		}
		svc := newPostServiceForTest(singleUserRepo(actor), postRepo, noopCommentRepo(), noopFollowRepo(), inbox)

		require.NoError(t, svc.Like(ctx, 2, 10))
		assert.Equal(t, 1, likeCalls)
		require.Len(t, inbox.created, 1)
		assert.Equal(t, uint(1), inbox.created[0].RecipientID)
		assert.Equal(t, "bob liked your post", inbox.created[0].Message)
	})

	t.Run("second like is a silent no-op", func(t *testing.T) {
		inbox := &inboxRecorder{}
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			copied := *post
			return &copied, nil
		}
		postRepo.hasLikedFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
		postRepo.createLikeFn = func(_ context.Context, _, _ uint) error {
			t.Fatal("CreateLike called for an existing like")
			return nil
		}
		svc := newPostServiceForTest(singleUserRepo(actor), postRepo, noopCommentRepo(), noopFollowRepo(), inbox)

		require.NoError(t, svc.Like(ctx, 2, 10))
		assert.Empty(t, inbox.created)
	})

	t.Run("liking own post stores no notification", func(t *testing.T) {
		inbox := &inboxRecorder{}
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			copied := *post
			return &copied, nil
		}
		alice := &models.User{ID: 1, Username: "alice"}
		svc := newPostServiceForTest(singleUserRepo(alice), postRepo, noopCommentRepo(), noopFollowRepo(), inbox)

		require.NoError(t, svc.Like(ctx, 1, 10))
		assert.Empty(t, inbox.created)
	})
}

func TestPostService_Comment(t *testing.T) {
	ctx := context.Background()
	creator := models.User{ID: 1, Username: "alice"}
	actor := &models.User{ID: 2, Username: "bob"}
	post := &models.Post{ID: 10, Type: models.PostTypeText, UserID: 1, User: creator}

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
		copied := *post
		return &copied, nil
	}

	t.Run("stores comment and notifies without the text", func(t *testing.T) {
		inbox := &inboxRecorder{}
		var stored *models.Comment
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 5
			stored = c
			return nil
		}
		svc := newPostServiceForTest(singleUserRepo(actor), postRepo, commentRepo, noopFollowRepo(), inbox)

		comment, err := svc.Comment(ctx, 2, 10, "nice one")
		require.NoError(t, err)
		assert.Equal(t, "nice one", comment.Content)
		require.NotNil(t, stored)

		require.Len(t, inbox.created, 1)
		assert.Equal(t, "bob commented on your post", inbox.created[0].Message,
			"inbox message must not carry the comment text")
	})

	t.Run("repeated comments always notify", func(t *testing.T) {
		inbox := &inboxRecorder{}
		svc := newPostServiceForTest(singleUserRepo(actor), postRepo, noopCommentRepo(), noopFollowRepo(), inbox)

		for i := 0; i < 3; i++ {
			_, err := svc.Comment(ctx, 2, 10, "again")
			require.NoError(t, err)
		}
		assert.Len(t, inbox.created, 3)
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		svc := newPostServiceForTest(singleUserRepo(actor), postRepo, noopCommentRepo(), noopFollowRepo(), &inboxRecorder{})

		_, err := svc.Comment(ctx, 2, 10, "")
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})
}

func TestPostService_Discount(t *testing.T) {
	ctx := context.Background()
	seller := &models.User{ID: 1, Username: "alice", Password: hashPassword(t, "pass123")}

	salePost := func() *models.Post {
		return &models.Post{
			ID: 10, Type: models.PostTypeSale, UserID: 1, User: *seller,
			ProductName: "bicycle", Price: 100, City: "Haifa",
		}
	}

	newSvc := func(post *models.Post, updated **models.Post) *PostService {
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return post, nil }
		postRepo.updateFn = func(_ context.Context, p *models.Post) error {
			if updated != nil {
				*updated = p
			}
			return nil
		}
		return newPostServiceForTest(singleUserRepo(seller), postRepo, noopCommentRepo(), noopFollowRepo(), &inboxRecorder{})
	}

	t.Run("applies percentage to price", func(t *testing.T) {
		var updated *models.Post
		svc := newSvc(salePost(), &updated)

		post, err := svc.Discount(ctx, 1, 10, 10, "pass123")
		require.NoError(t, err)
		assert.InDelta(t, 90.0, post.Price, 1e-9)
		require.NotNil(t, updated)
		assert.InDelta(t, 90.0, updated.Price, 1e-9)
	})

	t.Run("full discount brings price to zero", func(t *testing.T) {
		svc := newSvc(salePost(), nil)

		post, err := svc.Discount(ctx, 1, 10, 100, "pass123")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, post.Price, 1e-9)
	})

	t.Run("rejects out-of-range percentages", func(t *testing.T) {
		for _, pct := range []float64{0, -5, 101} {
			svc := newSvc(salePost(), nil)
			_, err := svc.Discount(ctx, 1, 10, pct, "pass123")
			assert.Equal(t, models.CodeValidation, models.ErrorCode(err), "pct=%v", pct)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := newSvc(salePost(), nil)
		_, err := svc.Discount(ctx, 1, 10, 10, "wrong12")
		assert.Equal(t, models.CodeInvalidCredentials, models.ErrorCode(err))
	})

	t.Run("range is checked before the password", func(t *testing.T) {
		svc := newSvc(salePost(), nil)
		_, err := svc.Discount(ctx, 1, 10, 200, "wrong12")
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("non-sale post", func(t *testing.T) {
		textPost := &models.Post{ID: 11, Type: models.PostTypeText, UserID: 1, User: *seller}
		svc := newSvc(textPost, nil)
		_, err := svc.Discount(ctx, 1, 11, 10, "pass123")
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})

	t.Run("sold product cannot be discounted", func(t *testing.T) {
		post := salePost()
		post.Sold = true
		svc := newSvc(post, nil)
		_, err := svc.Discount(ctx, 1, 10, 10, "pass123")
		assert.Equal(t, models.CodeIllegalOperation, models.ErrorCode(err))
	})
}

func TestPostService_MarkSold(t *testing.T) {
	ctx := context.Background()
	seller := &models.User{ID: 1, Username: "alice", Password: hashPassword(t, "pass123")}

	salePost := func() *models.Post {
		return &models.Post{
			ID: 10, Type: models.PostTypeSale, UserID: 1, User: *seller,
			ProductName: "bicycle", Price: 100,
		}
	}

	newSvc := func(post *models.Post, updateCalls *int) *PostService {
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) { return post, nil }
		postRepo.updateFn = func(_ context.Context, _ *models.Post) error {
			if updateCalls != nil {
				*updateCalls++
			}
			return nil
		}
		return newPostServiceForTest(singleUserRepo(seller), postRepo, noopCommentRepo(), noopFollowRepo(), &inboxRecorder{})
	}

	t.Run("marks the post sold", func(t *testing.T) {
		post := salePost()
		svc := newSvc(post, nil)

		result, err := svc.MarkSold(ctx, 1, 10, "pass123")
		require.NoError(t, err)
		assert.True(t, result.Sold)
	})

	t.Run("wrong password fails with invalid credentials", func(t *testing.T) {
		post := salePost()
		svc := newSvc(post, nil)

		_, err := svc.MarkSold(ctx, 1, 10, "wrong12")
		assert.Equal(t, models.CodeInvalidCredentials, models.ErrorCode(err))
		assert.False(t, post.Sold)
	})

	t.Run("already sold is a no-op", func(t *testing.T) {
		post := salePost()
		post.Sold = true
		updateCalls := 0
		svc := newSvc(post, &updateCalls)

		result, err := svc.MarkSold(ctx, 1, 10, "pass123")
		require.NoError(t, err)
		assert.True(t, result.Sold)
		assert.Zero(t, updateCalls)
	})
}
