package domain

import (
	"time"
)

// Post is a titled, bodied content item owned by its author. Only the
// title and body ever change after creation - the author does not.
type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID int    `json:"author_id" gorm:"notNull;index"`
	Author   User   `json:"author" gorm:"foreignKey:AuthorID"`

	Loves    []Love    `json:"loves,omitempty" gorm:"foreignKey:PostID"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostInfo is one row of the listing feed: a post joined with its author's
// username and the aggregated love count, plus the id of one arbitrary
// loving user (or 0 when the post has no loves).
type PostInfo struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	AuthorID     int       `json:"author_id"`
	Username     string    `json:"username"`
	Loves        int       `json:"loves"`
	LoveAuthorID int       `json:"love_author_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostService is a set of methods to manipulate and work with the Post model.
type PostService interface {
	Feed() ([]PostInfo, error)
	ByID(id int) (*Post, error)
	Create(post *Post) error
	Update(post *Post) error
	Delete(post *Post) error
}
