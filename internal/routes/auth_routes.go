package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/internal/controllers"
)

// SetupAuth mounts the routes reachable without a token.
func SetupAuth(api fiber.Router, h *controllers.AuthHandler) {
	users := api.Group("/users")

	users.Post("/register", h.Register)
	users.Post("/login", h.Login)
	users.Post("/forget-password-token", h.ForgetPasswordToken)
	users.Put("/reset-password", h.ResetPassword)
}
