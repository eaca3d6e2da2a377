// @title Blog API
// @version 1.0
// @description Social blogging backend: users, follows, posts, reactions, comments, categories and email.
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/stepweaver/mern-blog-server/docs"

	"github.com/stepweaver/mern-blog-server/bootstrap"
	"github.com/stepweaver/mern-blog-server/config"
	"github.com/stepweaver/mern-blog-server/database"
	"github.com/stepweaver/mern-blog-server/internal/mailer"
	"github.com/stepweaver/mern-blog-server/internal/repository"
	"github.com/stepweaver/mern-blog-server/internal/repository/memstore"
	"github.com/stepweaver/mern-blog-server/internal/routes"
	"github.com/stepweaver/mern-blog-server/internal/services"
	"github.com/stepweaver/mern-blog-server/internal/storage"
	"github.com/stepweaver/mern-blog-server/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("store unavailable", "store", cfg.Store, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	var mail services.Mailer = mailer.Log{Logger: log}
	if smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom); smtp.Enabled() {
		mail = smtp
	} else {
		log.Warn("SMTP_HOST not set, outgoing mail is only logged")
	}

	var uploader services.Uploader
	staticDir := ""
	if cfg.CloudinaryEnabled() {
		uploader, err = storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinarySecret, cfg.CloudinaryFolder)
	} else {
		log.Warn("cloudinary not configured, storing uploads on local disk", "dir", cfg.UploadDir)
		uploader, err = storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
		staticDir = cfg.UploadDir
	}
	if err != nil {
		log.Error("uploader unavailable", "err", err)
		os.Exit(1)
	}

	svc := routes.Wire(routes.Wiring{
		Stores:   stores,
		Mailer:   mail,
		Uploader: uploader,
		Filter:   utils.NewProfanityFilter(utils.ParseWordList(cfg.ProfanityWords)...),
		Identity: services.IdentityConfig{
			JWTSecret:   cfg.JWTSecret,
			JWTTTL:      cfg.JWTTTL,
			FrontendURL: cfg.FrontendURL,
			MailFrom:    cfg.MailFrom,
		},
		TokenTTL:        cfg.TokenTTL,
		UpstreamTimeout: cfg.UpstreamTimeout,
		Log:             log,
	})

	app := routes.NewApp(routes.Config{
		JWTSecret:      cfg.JWTSecret,
		DBTimeout:      cfg.DBTimeout,
		StaticDir:      staticDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
		AccessLog:      cfg.AccessLog,
		Log:            log,
	}, svc)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error("shutdown", "err", err)
		}
	}()

	log.Info("listening", "port", cfg.Port, "store", cfg.Store)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", "err", err)
	}
}

// openStore returns the configured store and a function releasing it.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (services.Stores, func(), error) {
	switch cfg.Store {
	case "memory":
		log.Warn("using in-memory store, data is lost on exit")
		st := memstore.New()
		return services.Stores{Users: st, Posts: st, Comments: st, Categories: st, Messages: st}, func() {}, nil
	case "mongo", "":
	default:
		return services.Stores{}, nil, errors.New("STORE must be mongo or memory")
	}

	client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return services.Stores{}, nil, err
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("mongodb disconnect", "err", err)
		}
	}

	ictx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bootstrap.EnsureIndexes(ictx, db); err != nil {
		closeFn()
		return services.Stores{}, nil, err
	}

	repos := repository.New(client, db, cfg.MongoTransactions)
	return services.Stores{
		Users:      repos.Users,
		Posts:      repos.Posts,
		Comments:   repos.Comments,
		Categories: repos.Categories,
		Messages:   repos.Messages,
	}, closeFn, nil
}
