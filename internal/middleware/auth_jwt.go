package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stepweaver/mern-blog-server/internal/models"
)

const (
	LocalUserID = "user_id"
	LocalUser   = "user"
)

// JWTAuth resolves a bearer token to a user id in Locals. Requests without an
// Authorization header pass through anonymously; a bad token is rejected.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			return c.Next()
		}

		tokenStr := strings.TrimSpace(auth[7:])
		var claims models.Claims
		token, err := jwt.ParseWithClaims(
			tokenStr,
			&claims,
			func(t *jwt.Token) (any, error) { return []byte(secret), nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authorized token expired, login again")
		}
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		uid := claims.UID
		if uid == "" {
			uid = claims.Subject
		}
		if uid == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing uid")
		}

		c.Locals(LocalUserID, uid)
		return c.Next()
	}
}
