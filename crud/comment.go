package crud

import (
	"gorm.io/gorm"

	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the
// domain.CommentService interface. If it does not, then this expression
// becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
// Like loving, commenting does not check that the post exists.
func (cv *commentValidator) Create(comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.authorIdValid,
		cv.postIdValid,
		cv.textRequired)
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(comment)
}

// DeleteOwned deletes the comment with the given id, provided it belongs to
// the given author. Note that id is the COMMENT id, not the post id.
func (cv *commentValidator) DeleteOwned(id, authorID int) error {
	if id <= 0 {
		return errs.Errorf(errs.EINVALID, "Comment ID is invalid.")
	}
	if authorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Author ID is required.")
	}
	return cv.commentGorm.DeleteOwned(id, authorID)
}

// runCommentValFns runs any number of functions of type commentValFn on the
// passed in Comment object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment
// object and returns an error.
type commentValFn func(comment *domain.Comment) error

// textRequired makes sure that the comment's text is not empty.
func (cv *commentValidator) textRequired(comment *domain.Comment) error {
	if comment.CommentText == "" {
		return errs.Errorf(errs.EINVALID, "comment_text is required.")
	}
	return nil
}

// postIdValid ensures that the postId is not empty.
func (cv *commentValidator) postIdValid(comment *domain.Comment) error {
	if comment.PostID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post ID is invalid.")
	}
	return nil
}

// authorIdValid ensures that the authorId is not empty.
func (cv *commentValidator) authorIdValid(comment *domain.Comment) error {
	if comment.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Author ID is required.")
	}
	return nil
}

// ByPostID retrieves all comments of a post, newest first, each left-joined
// with the id and username of the commenting user.
func (cg *commentGorm) ByPostID(postID int) ([]domain.CommentInfo, error) {
	var comments []domain.CommentInfo
	err := cg.db.
		Model(&domain.Comment{}).
		Select("comments.id, comments.comment_text, comments.post_id, comments.author_id, comments.created_at, " +
			"coalesce(users.id, 0) AS comment_author, coalesce(users.username, '') AS username").
		Joins("LEFT JOIN users ON users.id = comments.author_id").
		Where("comments.post_id = ?", postID).
		Group("comments.id, comments.comment_text, comments.post_id, comments.author_id, comments.created_at, users.id, users.username").
		Order("comments.created_at DESC").
		Scan(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(comment *domain.Comment) error {
	return cg.db.Create(comment).Error
}

// DeleteOwned permanently deletes the Comment record matching the given
// comment id and author. Deleting zero rows is not an error.
func (cg *commentGorm) DeleteOwned(id, authorID int) error {
	return cg.db.
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&domain.Comment{}).Error
}
