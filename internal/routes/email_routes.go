package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/internal/controllers"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
)

func EmailRoutes(api fiber.Router, h *controllers.EmailHandler) {
	api.Post("/email", middleware.RequireAuth(), h.Send)
}
