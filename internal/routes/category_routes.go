package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/internal/controllers"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
)

func CategoryRoutes(api fiber.Router, h *controllers.CategoryHandler) {
	category := api.Group("/category")
	auth := middleware.RequireAuth()

	category.Post("/", auth, h.Create)
	category.Get("/", h.List)
	category.Get("/:id", h.Get)
	category.Put("/:id", auth, h.Update)
	category.Delete("/:id", auth, h.Delete)
}
