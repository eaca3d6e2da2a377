package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

const secret = "test-secret"

func sign(t *testing.T, key, uid string, exp time.Time) string {
	t.Helper()
	claims := models.Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func whoAmI() *fiber.App {
	app := fiber.New()
	app.Use(JWTAuth(secret))
	app.Get("/", func(c *fiber.Ctx) error {
		uid, _ := c.Locals(LocalUserID).(string)
		return c.SendString(uid)
	})
	return app
}

func status(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode
}

func TestJWTAuth(t *testing.T) {
	app := whoAmI()
	uid := bson.NewObjectID().Hex()

	if got := status(t, app, ""); got != fiber.StatusOK {
		t.Fatalf("anonymous request status = %d", got)
	}
	if got := status(t, app, sign(t, secret, uid, time.Now().Add(time.Hour))); got != fiber.StatusOK {
		t.Fatalf("valid token status = %d", got)
	}
	if got := status(t, app, sign(t, secret, uid, time.Now().Add(-time.Hour))); got != fiber.StatusUnauthorized {
		t.Fatalf("expired token status = %d", got)
	}
	if got := status(t, app, sign(t, "other", uid, time.Now().Add(time.Hour))); got != fiber.StatusUnauthorized {
		t.Fatalf("foreign token status = %d", got)
	}
	if got := status(t, app, "garbage"); got != fiber.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", got)
	}
}

type oneUser struct{ u *models.User }

func (o oneUser) FindUserByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	if o.u != nil && o.u.ID == id {
		return o.u, nil
	}
	return nil, repository.ErrNotFound
}

func TestInjectUserAndGuards(t *testing.T) {
	u := &models.User{ID: bson.NewObjectID(), FirstName: "Ann"}
	app := fiber.New()
	app.Use(JWTAuth(secret), InjectUser(oneUser{u}, time.Second))
	app.Get("/me", RequireAuth(), func(c *fiber.Ctx) error { return c.SendString(CurrentUser(c).FirstName) })
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	call := func(path, token string) int {
		req := httptest.NewRequest("GET", path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp.StatusCode
	}

	good := sign(t, secret, u.ID.Hex(), time.Now().Add(time.Hour))
	ghost := sign(t, secret, bson.NewObjectID().Hex(), time.Now().Add(time.Hour))

	if got := call("/me", ""); got != fiber.StatusUnauthorized {
		t.Fatalf("anonymous /me = %d", got)
	}
	if got := call("/me", good); got != fiber.StatusOK {
		t.Fatalf("authenticated /me = %d", got)
	}
	if got := call("/me", ghost); got != fiber.StatusUnauthorized {
		t.Fatalf("deleted user /me = %d", got)
	}
	if got := call("/admin", good); got != fiber.StatusForbidden {
		t.Fatalf("non-admin /admin = %d", got)
	}
	u.IsAdmin = true
	if got := call("/admin", good); got != fiber.StatusOK {
		t.Fatalf("admin /admin = %d", got)
	}
}
