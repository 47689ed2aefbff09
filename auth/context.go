package auth

import (
	"context"

	"github.com/emersonlsg10/flask/domain"
)

const (
	userKey privateKey = "user"
)

type privateKey string

// SetUser returns a copy of ctx carrying the signed-in user. The checkUser
// middleware calls this once per request; handlers never touch it.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the signed-in user carried by ctx, or nil for an
// anonymous request.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
