package routes

import (
	"log/slog"
	"time"

	"github.com/stepweaver/mern-blog-server/internal/services"
)

// Wiring lists the process-wide collaborators the services are built from.
type Wiring struct {
	Stores          services.Stores
	Mailer          services.Mailer
	Uploader        services.Uploader
	Filter          services.ProfanityChecker
	Identity        services.IdentityConfig
	TokenTTL        time.Duration
	UpstreamTimeout time.Duration
	Log             *slog.Logger
}

// Wire builds every service over the given stores.
func Wire(w Wiring) Services {
	st := w.Stores
	upstream := w.UpstreamTimeout
	if upstream <= 0 {
		upstream = services.DefaultUpstreamTimeout
	}
	if w.Identity.UpstreamTimeout <= 0 {
		w.Identity.UpstreamTimeout = upstream
	}

	tokens := services.NewTokenService(st.Users, w.TokenTTL)
	rel := services.NewRelationshipService(st.Users, w.Log)
	mod := services.NewModerationService(st.Users, w.Filter, w.Log)
	profiles := services.NewProfileService(st.Users)

	posts := services.NewPostService(st.Users, st.Posts, st.Comments, mod, rel, w.Uploader, w.Filter, w.Log)
	posts.UpstreamTimeout = upstream
	users := services.NewUserService(st.Users, st.Posts, st.Comments, profiles, mod, w.Uploader, w.Log)
	users.UpstreamTimeout = upstream
	email := services.NewEmailService(st.Users, st.Messages, mod, w.Mailer, w.Identity.MailFrom, w.Log)
	email.UpstreamTimeout = upstream

	return Services{
		Users:         st.Users,
		Identity:      services.NewIdentityService(st.Users, tokens, w.Mailer, w.Identity, w.Log),
		UserService:   users,
		Relationships: rel,
		Moderation:    mod,
		Posts:         posts,
		Reactions:     services.NewReactionService(st.Posts, w.Log),
		Comments:      services.NewCommentService(st.Users, st.Posts, st.Comments, mod, w.Filter, w.Log),
		Categories:    services.NewCategoryService(st.Users, st.Categories),
		Email:         email,
	}
}
