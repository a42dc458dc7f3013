package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Post type tags. Posts are a closed set of variants dispatched on the tag
// rather than a class hierarchy.
const (
	PostTypeText  = "text"
	PostTypeImage = "image"
	PostTypeSale  = "sale"
)

// Post represents a piece of content published by a user. A single table
// holds all three variants; variant-specific columns are zero-valued for the
// other types.
type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Type   string `gorm:"size:10;not null;index" json:"type"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`

	// text variant
	Content string `gorm:"type:text" json:"content,omitempty"`

	// image variant
	ImageURL string `json:"image_url,omitempty"`

	// sale variant
	ProductName string  `json:"product_name,omitempty"`
	Price       float64 `json:"price,omitempty"`
	City        string  `json:"city,omitempty"`
	Sold        bool    `gorm:"not null;default:false" json:"sold,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Headline renders the human-readable status line for a post, per variant.
func (p *Post) Headline() string {
	switch p.Type {
	case PostTypeText:
		return fmt.Sprintf("%s published a post:\n%q", p.User.Username, p.Content)
	case PostTypeImage:
		return fmt.Sprintf("%s posted a picture", p.User.Username)
	case PostTypeSale:
		state := "For sale!"
		if p.Sold {
			state = "Sold!"
		}
		return fmt.Sprintf("%s posted a product for sale:\n%s %s, price: %g, pickup from: %s",
			p.User.Username, state, p.ProductName, p.Price, p.City)
	default:
		return fmt.Sprintf("%s published a post", p.User.Username)
	}
}

// Like represents a many-to-many relationship between a user and a post.
// The (user, post) pair is unique; liking twice is a no-op.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment represents a comment left on a post. Comments are never
// deduplicated; every comment notifies the post's creator.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
