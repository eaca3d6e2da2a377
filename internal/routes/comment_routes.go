package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/internal/controllers"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
)

func CommentRoutes(api fiber.Router, h *controllers.CommentHandler) {
	comments := api.Group("/comments", middleware.RequireAuth())

	comments.Post("/", h.Create)
	comments.Get("/", h.List)
	comments.Get("/post/:postId", h.ListByPost)
	comments.Get("/:id", h.Get)
	comments.Put("/:id", h.Update)
	comments.Delete("/:id", h.Delete)
}
