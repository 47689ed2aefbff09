package domain

import (
	"time"
)

// User represents a registered account. Users are created by the auth
// system (password registration or OAuth) and are only referenced,
// never mutated, by the blog handlers.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"uniqueIndex"`

	// Password is the plaintext password submitted on registration or login.
	// It is never stored - the validation chain bcrypts it into PasswordHash
	// and clears it.
	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`

	// NoPasswordNeeded is set on accounts created through OAuth,
	// which have no password of their own.
	NoPasswordNeeded bool `json:"-"`

	// Remember is the raw remember token stored in the user's cookie.
	// Only its HMAC hash is persisted.
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-"`

	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	Authenticate(username, password string) (*User, error)
	ByID(id int) (*User, error)
	ByUsername(username string) (*User, error)
	ByRemember(token string) (*User, error)
	MakeRememberToken() (string, error)
	Create(user *User) error
	Update(user *User) error
}
