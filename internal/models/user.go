// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a member of the Flock network. The username is the
// identity key; two users are the same user iff their usernames match.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Password  string         `gorm:"not null" json:"-"`
	PostCount int            `gorm:"not null;default:0" json:"post_count"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`

	// FollowerCount is not persisted; computed at query time
	FollowerCount int `gorm:"->" json:"follower_count"`
}

// Equal reports whether two users are the same user (username identity).
func (u *User) Equal(other *User) bool {
	if other == nil {
		return false
	}
	return u.Username == other.Username
}
