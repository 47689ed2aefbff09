package crud

import (
	"gorm.io/gorm"

	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

// LoveService manages Loves.
// It implements the domain.LoveService interface.
type LoveService struct {
	loveValidator
}

// loveValidator runs validations on incoming Love data.
// On success, it passes the data on to loveGorm.
// Otherwise, it returns the error of the validation that has failed.
type loveValidator struct {
	loveGorm
}

// loveGorm runs CRUD operations on the database using incoming Love data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type loveGorm struct {
	db *gorm.DB
}

// NewLoveService returns an instance of LoveService.
func NewLoveService(db *gorm.DB) *LoveService {
	return &LoveService{
		loveValidator{
			loveGorm{
				db: db,
			},
		},
	}
}

// Ensure the LoveService struct properly implements the domain.LoveService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.LoveService = &LoveService{}

// Create runs validations needed for creating new Love database records.
// There is deliberately no check that the loved post exists and no duplicate
// check: loving is an unconditional insert, and a user may accumulate
// several loves on the same post.
func (lv *loveValidator) Create(love *domain.Love) error {
	err := runLoveValFns(love,
		lv.authorIdValid,
		lv.postIdValid)
	if err != nil {
		return err
	}
	return lv.loveGorm.Create(love)
}

// DeleteForPost removes all of a user's loves on the given post.
func (lv *loveValidator) DeleteForPost(postID, authorID int) error {
	if postID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post ID is invalid.")
	}
	if authorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Author ID is required.")
	}
	return lv.loveGorm.DeleteForPost(postID, authorID)
}

// runLoveValFns runs any number of functions of type loveValFn on the passed
// in Love object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runLoveValFns(love *domain.Love, fns ...loveValFn) error {
	for _, fn := range fns {
		if err := fn(love); err != nil {
			return err
		}
	}
	return nil
}

// A loveValFn is any function that takes in a pointer to a domain.Love object
// and returns an error.
type loveValFn func(love *domain.Love) error

// postIdValid ensures that the postId is not empty.
func (lv *loveValidator) postIdValid(love *domain.Love) error {
	if love.PostID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post ID is invalid.")
	}
	return nil
}

// authorIdValid ensures that the authorId is not empty.
func (lv *loveValidator) authorIdValid(love *domain.Love) error {
	if love.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Author ID is required.")
	}
	return nil
}

// Create stores the data from the Love object in a new database record.
func (lg *loveGorm) Create(love *domain.Love) error {
	return lg.db.Create(love).Error
}

// DeleteForPost permanently deletes all Love records matching the given
// post and author. Deleting zero rows is not an error.
func (lg *loveGorm) DeleteForPost(postID, authorID int) error {
	return lg.db.
		Where("post_id = ? AND author_id = ?", postID, authorID).
		Delete(&domain.Love{}).Error
}
