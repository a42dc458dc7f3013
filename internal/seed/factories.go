// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"flock/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password every seeded user gets.
const SeedPassword = "pass123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand

	// bcrypt of SeedPassword, computed once
	hashedPassword string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hashed, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	return &Factory{
		db:             db,
		rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
		hashedPassword: string(hashed),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Password: f.hashedPassword,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs an unsaved post of the given type with generated content.
func (f *Factory) BuildPost(user *models.User, postType string, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Type:   postType,
		UserID: user.ID,
	}

	switch postType {
	case models.PostTypeImage:
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	case models.PostTypeSale:
		post.ProductName = gofakeit.ProductName()
		post.Price = float64(gofakeit.Number(5, 500))
		post.City = gofakeit.City()
	default:
		post.Content = gofakeit.Paragraph(1, 3, 5, "\n")
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateFollow persists a follower relationship, ignoring duplicates.
func (f *Factory) CreateFollow(followerID, followedID uint) error {
	follow := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	err := f.db.Create(follow).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

// CreateComment persists a generated comment on the post.
func (f *Factory) CreateComment(userID, postID uint) error {
	comment := &models.Comment{
		Content: gofakeit.Sentence(f.rand.Intn(10) + 3),
		UserID:  userID,
		PostID:  postID,
	}
	return f.db.Create(comment).Error
}

// CreateLike persists a like, ignoring duplicates.
func (f *Factory) CreateLike(userID, postID uint) error {
	like := &models.Like{UserID: userID, PostID: postID}
	err := f.db.Create(like).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}
