package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/internal/controllers"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
)

func SetupRoutesPost(api fiber.Router, h *controllers.PostHandler, photo fiber.Handler) {
	posts := api.Group("/posts")
	auth := middleware.RequireAuth()

	posts.Post("/", auth, photo, h.Create)
	posts.Get("/", h.List)

	// GET /api/posts/page?limit=20&cursor=...
	// first call sends only limit, later calls pass next_cursor from the previous page
	posts.Get("/page", h.Page)

	posts.Put("/likes", auth, h.ToggleLike)
	posts.Put("/unlikes", auth, h.ToggleUnlike)

	posts.Get("/:id", h.Get)
	posts.Put("/:id", auth, h.Update)
	posts.Delete("/:id", auth, h.Delete)
}
