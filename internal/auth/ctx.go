package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/plume-social/plume/internal/model"
)

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// localsUserKey is where the session middleware stores the resolved account
// on the fiber context.
const localsUserKey = "user"

// WithContext sets the resolved account in the given context.
func WithContext(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// FromContext finds the account from the context.
func FromContext(ctx context.Context) (*model.User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*model.User)
	return raw, ok
}

// UserFromCtx returns the account the session middleware attached to the
// request. Handlers must use this as the only source of the caller's
// identity, never a client-supplied field.
func UserFromCtx(c *fiber.Ctx) (*model.User, bool) {
	raw, ok := c.Locals(localsUserKey).(*model.User)
	return raw, ok
}
