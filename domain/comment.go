package domain

import (
	"time"
)

// Comment is a text annotation linking a user to a post.
type Comment struct {
	ID          int    `json:"id"`
	CommentText string `json:"comment_text"`
	PostID      int    `json:"post_id" gorm:"index"`
	AuthorID    int    `json:"author_id" gorm:"notNull;index"`

	CreatedAt time.Time `json:"created_at"`
}

// CommentInfo is one row of a post's comment listing: a comment joined
// with the id and username of the commenting user.
type CommentInfo struct {
	ID            int       `json:"id"`
	CommentText   string    `json:"comment_text"`
	PostID        int       `json:"post_id"`
	AuthorID      int       `json:"author_id"`
	CommentAuthor int       `json:"comment_author"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"created_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	ByPostID(postID int) ([]CommentInfo, error)
	Create(comment *Comment) error
	// DeleteOwned deletes the comment with the given id, provided it
	// belongs to the given author.
	DeleteOwned(id, authorID int) error
}
