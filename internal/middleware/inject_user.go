package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

// UserFinder is the slice of the user store the middleware needs.
type UserFinder interface {
	FindUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
}

// InjectUser loads the token's user into Locals. A token whose user no longer
// exists is rejected.
func InjectUser(users UserFinder, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uidHex, _ := c.Locals(LocalUserID).(string)
		if uidHex == "" {
			return c.Next()
		}
		uid, err := bson.ObjectIDFromHex(uidHex)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()

		u, err := users.FindUserByID(ctx, uid)
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized, user no longer exists")
		}
		if err != nil {
			return err
		}
		c.Locals(LocalUser, u)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(LocalUser).(*models.User)
	return u
}

// UIDObjectID returns the authenticated user's id.
func UIDObjectID(c *fiber.Ctx) (bson.ObjectID, error) {
	u := CurrentUser(c)
	if u == nil {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}
	return u.ID, nil
}

func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "There is no token attached to the header")
		}
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "There is no token attached to the header")
		}
		if !u.IsAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin only")
		}
		return c.Next()
	}
}
