package models

import "time"

// Follow represents a directed follower relationship: the follower receives
// notifications about the followed user's activity. The (follower, followed)
// pair is unique, giving the follower set its set semantics.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	Follower   User      `gorm:"foreignKey:FollowerID" json:"follower"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"followed_id"`
	Followed   User      `gorm:"foreignKey:FollowedID" json:"followed"`
	CreatedAt  time.Time `json:"created_at"`
}
