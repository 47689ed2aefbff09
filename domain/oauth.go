package domain

import (
	"time"
)

// OAuth links a User to an account at an external provider.
type OAuth struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id"`
	User           *User  `json:"user,omitempty"`
	Provider       string `json:"provider"`
	ProviderUserID string `json:"provider_user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OAuthService interface {
	Find(userID int, provider string) (*OAuth, error)
	ByProviderUserID(provider, providerUserID string) (*OAuth, error)
	Create(oauth *OAuth) error
}
