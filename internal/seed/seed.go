package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"flock/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with a believable social graph.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rand    *rand.Rand
}

// NewSeeder creates a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll truncates all seeded tables.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, comments, likes, posts, follows, users RESTART IDENTITY CASCADE;`
	if err := s.db.Exec(sql).Error; err != nil {
		// sqlite has no TRUNCATE; fall back to per-table deletes
		for _, table := range []string{"notifications", "comments", "likes", "posts", "follows", "users"} {
			if derr := s.db.Exec("DELETE FROM " + table).Error; derr != nil {
				return derr
			}
		}
	}
	return nil
}

// Run seeds users, the follow graph, posts, and engagement.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	if err := s.seedFollowGraph(users); err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}

	posts, err := s.seedPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.seedEngagement(users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Println("Seeding complete.")
	return nil
}

func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A few fixed users for predictable local logins.
	if count >= 2 {
		for _, name := range []string{"alice", "bob"} {
			name := name
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = name
			})
			if err != nil {
				if strings.Contains(strings.ToLower(err.Error()), "unique") {
					continue
				}
				return nil, err
			}
			users = append(users, user)
		}
	}

	for len(users) < count {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedFollowGraph(users []*models.User) error {
	for _, user := range users {
		// each user follows a handful of others
		numFollows := s.rand.Intn(5) + 1
		for i := 0; i < numFollows; i++ {
			target := users[s.rand.Intn(len(users))]
			if target.ID == user.ID {
				continue
			}
			if err := s.factory.CreateFollow(user.ID, target.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedPosts(users []*models.User, count int) ([]*models.Post, error) {
	types := []string{
		models.PostTypeText, models.PostTypeText, models.PostTypeText,
		models.PostTypeImage, models.PostTypeImage,
		models.PostTypeSale,
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.rand.Intn(len(users))]
		postType := types[s.rand.Intn(len(types))]
		posts = append(posts, s.factory.BuildPost(author, postType))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}

	for _, post := range posts {
		if err := s.db.Model(&models.User{}).
			Where("id = ?", post.UserID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *Seeder) seedEngagement(users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		numLikes := s.rand.Intn(len(users)/2 + 1)
		for i := 0; i < numLikes; i++ {
			liker := users[s.rand.Intn(len(users))]
			if liker.ID == post.UserID {
				continue
			}
			if err := s.factory.CreateLike(liker.ID, post.ID); err != nil {
				return err
			}
		}

		numComments := s.rand.Intn(4)
		for i := 0; i < numComments; i++ {
			commenter := users[s.rand.Intn(len(users))]
			if err := s.factory.CreateComment(commenter.ID, post.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
