package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plume-social/plume/internal/model"
)

// UserResolver turns a verified token subject into a current account,
// excluding the password hash from the result.
type UserResolver interface {
	FindByIDPublic(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Protect is the single authorization gate for session routes. It extracts
// the token from the session cookie, verifies it, resolves the account and
// attaches it to the request context. A missing cookie, a bad or expired
// token, and a token whose account no longer exists all yield the same
// uniform unauthorized error.
func Protect(tokens *TokenService, users UserResolver, logger Logger) fiber.Handler {
	if logger == nil {
		logger = StdLogger{Prefix: "AUTH"}
	}

	return func(c *fiber.Ctx) error {
		token := c.Cookies(CookieName)
		if token == "" {
			return ErrUnauthorized
		}

		userID, err := tokens.Validate(token)
		if err != nil {
			logger.Debug("session token rejected", "error", err)
			return ErrUnauthorized
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			logger.Debug("session token subject is not an object id", "subject", userID)
			return ErrUnauthorized
		}

		user, err := users.FindByIDPublic(c.UserContext(), oid)
		if err != nil {
			if errors.IsNotFound(err) {
				// stale token for an account that no longer resolves
				return ErrUnauthorized
			}
			return errors.Wrap(err, errors.CategoryInternal, "failed to resolve session account")
		}

		c.Locals(localsUserKey, user)
		c.SetUserContext(WithContext(c.UserContext(), user))

		return c.Next()
	}
}
