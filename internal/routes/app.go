package routes

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/stepweaver/mern-blog-server/dto"
	"github.com/stepweaver/mern-blog-server/internal/controllers"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type Config struct {
	JWTSecret      string
	DBTimeout      time.Duration
	TempDir        string
	StaticDir      string
	MaxUploadBytes int64
	CORSOrigins    string
	AccessLog      bool
	Log            *slog.Logger
}

type Services struct {
	Users         middleware.UserFinder
	Identity      *services.IdentityService
	UserService   *services.UserService
	Relationships *services.RelationshipService
	Moderation    *services.ModerationService
	Posts         *services.PostService
	Reactions     *services.ReactionService
	Comments      *services.CommentService
	Categories    *services.CategoryService
	Email         *services.EmailService
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message})
		}
		log.ErrorContext(c.UserContext(), "unhandled error", "method", c.Method(), "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
}

// NewApp wires middleware and every route onto a fresh Fiber app.
func NewApp(cfg Config, s Services) *fiber.App {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = controllers.DefaultTimeout
	}
	if cfg.TempDir == "" {
		cfg.TempDir = filepath.Join(os.TempDir(), "blog-uploads")
	}
	app :=fiber.New(fiber.Config{ErrorHandler: errorHandler(log)})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	if cfg.StaticDir != "" {
		app.Static("/uploads", cfg.StaticDir)
	}

	base := controllers.Base{Log: log, Timeout: cfg.DBTimeout}
	api := app.Group("/api",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.InjectUser(s.Users, base.Timeout),
	)
	photo := func(required bool) fiber.Handler {
		return middleware.PhotoUpload("image", cfg.TempDir, cfg.MaxUploadBytes, required)
	}

	SetupAuth(api, &controllers.AuthHandler{Base: base, Identity: s.Identity})
	SetupRoutesUser(api, &controllers.UserHandler{
		Base:          base,
		Users:         s.UserService,
		Identity:      s.Identity,
		Relationships: s.Relationships,
		Moderation:    s.Moderation,
	}, photo(true))
	SetupRoutesPost(api, &controllers.PostHandler{Base: base, Posts: s.Posts, Reactions: s.Reactions}, photo(false))
	CommentRoutes(api, &controllers.CommentHandler{Base: base, Comments: s.Comments})
	CategoryRoutes(api, &controllers.CategoryHandler{Base: base, Categories: s.Categories})
	EmailRoutes(api, &controllers.EmailHandler{Base: base, Email: s.Email})

	return app
}
