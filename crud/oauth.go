package crud

import (
	"gorm.io/gorm"

	"github.com/emersonlsg10/flask/domain"
	"github.com/emersonlsg10/flask/errs"
)

// OAuthService manages links between local users and external provider
// accounts. It implements the domain.OAuthService interface.
type OAuthService struct {
	oauthValidator
}

type oauthValidator struct {
	oauthGorm
}

type oauthGorm struct {
	db *gorm.DB
}

// NewOAuthService returns an instance of OAuthService.
func NewOAuthService(db *gorm.DB) *OAuthService {
	return &OAuthService{
		oauthValidator{
			oauthGorm{
				db: db,
			},
		},
	}
}

var _ domain.OAuthService = &OAuthService{}

func (ov *oauthValidator) Find(userID int, provider string) (*domain.OAuth, error) {
	return ov.oauthGorm.Find(userID, provider)
}

// Create runs validations needed for creating new OAuth database records.
func (ov *oauthValidator) Create(oauth *domain.OAuth) error {
	err := runOAuthValFns(oauth,
		ov.userIdRequired,
		ov.providerRequired,
		ov.providerUserIdRequired)
	if err != nil {
		return err
	}
	return ov.oauthGorm.Create(oauth)
}

// runOAuthValFns runs any number of functions of type oauthValFn on the
// passed in OAuth object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runOAuthValFns(oauth *domain.OAuth, fns ...oauthValFn) error {
	for _, fn := range fns {
		if err := fn(oauth); err != nil {
			return err
		}
	}
	return nil
}

// A oauthValFn is any function that takes in a pointer to a domain.OAuth
// object and returns an error.
type oauthValFn = func(oauth *domain.OAuth) error

func (ov *oauthValidator) providerRequired(oauth *domain.OAuth) error {
	if oauth.Provider == "" {
		return errs.Errorf(errs.EINVALID, "OAuth provider is required.")
	}
	return nil
}

func (ov *oauthValidator) providerUserIdRequired(oauth *domain.OAuth) error {
	if oauth.ProviderUserID == "" {
		return errs.Errorf(errs.EINVALID, "OAuth provider user ID is required.")
	}
	return nil
}

func (ov *oauthValidator) userIdRequired(oauth *domain.OAuth) error {
	if oauth.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

func (og *oauthGorm) Find(userID int, provider string) (*domain.OAuth, error) {
	var oauth domain.OAuth
	err := og.db.
		Where("user_id = ?", userID).
		Where("provider = ?", provider).
		First(&oauth).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "No %s account is linked to this user.", provider)
		}
		return nil, err
	}
	return &oauth, nil
}

func (og *oauthGorm) ByProviderUserID(provider, providerUserID string) (*domain.OAuth, error) {
	var oauth domain.OAuth
	err := og.db.
		Where("provider = ?", provider).
		Where("provider_user_id = ?", providerUserID).
		First(&oauth).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "Unknown %s account.", provider)
		}
		return nil, err
	}
	return &oauth, nil
}

func (og *oauthGorm) Create(oauth *domain.OAuth) error {
	return og.db.Create(oauth).Error
}
