package userctx

import (
	"context"

	"github.com/blogem/object-log/models"
)

// Context key type
type contextKey string

const userKey contextKey = "user"

// SetUser adds the logged-in user to request context
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the logged-in user from request context, or nil
func GetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// GetUserEmail retrieves the logged-in user's email from request context
func GetUserEmail(ctx context.Context) string {
	if user := GetUser(ctx); user != nil && user.Email != "" {
		return user.Email
	}
	return "anonymous"
}
