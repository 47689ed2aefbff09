package domain

import (
	"time"
)

// Love represents one user's reaction to one post. A Love is created when
// a user loves a post and destroyed when they unlove it. There is no
// uniqueness constraint, so a user may hold several loves on the same post.
type Love struct {
	ID       int `json:"id"`
	PostID   int `json:"post_id" gorm:"index"`
	AuthorID int `json:"author_id" gorm:"notNull;index"`

	CreatedAt time.Time `json:"created_at"`
}

// LoveService is a set of methods to manipulate and work with the Love model.
type LoveService interface {
	Create(love *Love) error
	DeleteForPost(postID, authorID int) error
}
