package crud

import (
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.authorIdValid,
		pv.titleRequired,
		pv.titleMinLength,
		pv.titleMaxLength)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(post)
}

// Update runs validations needed for updating existing Post database records.
// The title rules are the same as on create. Only title and body are ever
// written, so the author cannot change.
func (pv *postValidator) Update(post *domain.Post) error {
	err := runPostValFns(post,
		pv.idValid,
		pv.titleRequired,
		pv.titleMinLength,
		pv.titleMaxLength)
	if err != nil {
		return err
	}
	return pv.postGorm.Update(post)
}

// Delete runs validations needed for deleting existing Post database records.
func (pv *postValidator) Delete(post *domain.Post) error {
	err := runPostValFns(post, pv.idValid)
	if err != nil {
		return err
	}
	return pv.postGorm.Delete(post)
}

// runPostValFns runs any number of functions of type postValFn on the passed
// in Post object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object
// and returns an error.
type postValFn = func(post *domain.Post) error

// titleRequired makes sure that the Post's title is not empty.
func (pv *postValidator) titleRequired(post *domain.Post) error {
	if post.Title == "" {
		return errs.Errorf(errs.EINVALID, "Title is required.")
	}
	return nil
}

// titleMinLength makes sure that the Post's title has at least 4 characters.
func (pv *postValidator) titleMinLength(post *domain.Post) error {
	if utf8.RuneCountInString(post.Title) < 4 {
		return errs.Errorf(errs.EINVALID, "Title name must be bigger than 4 letters.")
	}
	return nil
}

// titleMaxLength makes sure that the Post's title has at most 10 characters.
func (pv *postValidator) titleMaxLength(post *domain.Post) error {
	if utf8.RuneCountInString(post.Title) > 10 {
		return errs.Errorf(errs.EINVALID, "Title cannot be bigger of 10 letters.")
	}
	return nil
}

// idValid makes sure that the passed in ID of a Post is greater than 0.
func (pv *postValidator) idValid(post *domain.Post) error {
	if post.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post ID is invalid.")
	}
	return nil
}

// authorIdValid ensures that the authorId is not empty.
func (pv *postValidator) authorIdValid(post *domain.Post) error {
	if post.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Author ID is required.")
	}
	return nil
}

// Feed retrieves all posts for the listing, newest first. Each post comes
// joined with its author's username and left-joined with its aggregated love
// count plus the id of one arbitrary loving user. Posts without loves still
// appear, with a count of 0.
func (pg *postGorm) Feed() ([]domain.PostInfo, error) {
	var feed []domain.PostInfo
	err := pg.db.
		Model(&domain.Post{}).
		Select("posts.id, posts.title, posts.body, posts.author_id, posts.created_at, " +
			"users.username AS username, " +
			"count(distinct loves.id) AS loves, " +
			"coalesce(max(loves.author_id), 0) AS love_author_id").
		Joins("LEFT JOIN users ON users.id = posts.author_id").
		Joins("LEFT JOIN loves ON loves.post_id = posts.id").
		Group("posts.id, posts.title, posts.body, posts.author_id, posts.created_at, users.username").
		Order("posts.created_at DESC").
		Scan(&feed).Error
	if err != nil {
		return nil, err
	}
	return feed, nil
}

// ByID retrieves a single Post by ID, along with its author.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.
		Preload("Author").
		First(&post, "id = ?", id).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "Post id %d doesn't exist.", id)
		}
		return nil, err
	}
	return &post, nil
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(post *domain.Post) error {
	if err := pg.db.Create(post).Error; err != nil {
		return err
	}
	return pg.db.Preload("Author").First(post, "id = ?", post.ID).Error
}

// Update writes the Post's title and body to the matching record.
// No other column is touched.
func (pg *postGorm) Update(post *domain.Post) error {
	return pg.db.
		Model(&domain.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title": post.Title,
			"body":  post.Body,
		}).Error
}

// Delete deletes a Post record from the database, along with its associated
// Loves and Comments, so no orphaned child rows remain.
func (pg *postGorm) Delete(post *domain.Post) error {
	return pg.db.Select("Loves", "Comments").Delete(post).Error
}
