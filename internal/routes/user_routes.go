package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/internal/controllers"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
)

func SetupRoutesUser(api fiber.Router, h *controllers.UserHandler, photo fiber.Handler) {
	users := api.Group("/users")
	auth := middleware.RequireAuth()
	admin := middleware.RequireAdmin()

	// static paths before /:id
	users.Get("/", auth, h.List)
	users.Put("/", auth, h.UpdateProfile)
	users.Put("/password", auth, h.UpdatePassword)
	users.Put("/follow", auth, h.Follow)
	users.Put("/unfollow", auth, h.Unfollow)
	users.Post("/generate-verify-email-token", auth, h.GenerateVerifyToken)
	users.Put("/verify-account", auth, h.VerifyAccount)
	users.Put("/profile-photo-upload", auth, photo, h.UploadProfilePhoto)
	users.Get("/profile/:id", auth, h.Profile)
	users.Put("/block-user/:id", admin, h.Block)
	users.Put("/unblock-user/:id", admin, h.Unblock)

	users.Get("/:id", h.Get)
	users.Delete("/:id", auth, h.Delete)
}
