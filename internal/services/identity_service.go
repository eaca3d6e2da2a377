package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stepweaver/mern-blog-server/internal/mailer"
	m "github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

const DefaultJWTTTL = 72 * time.Hour

type IdentityConfig struct {
	JWTSecret       string
	JWTTTL          time.Duration
	FrontendURL     string
	MailFrom        string
	UpstreamTimeout time.Duration
}

// IdentityService owns registration, login and credential recovery.
type IdentityService struct {
	users  UserStore
	tokens *TokenService
	mail   Mailer
	cfg    IdentityConfig
	log    *slog.Logger
	Now    func() time.Time
}

func NewIdentityService(users UserStore, tokens *TokenService, mail Mailer, cfg IdentityConfig, log *slog.Logger) *IdentityService {
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = DefaultJWTTTL
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &IdentityService{users: users, tokens: tokens, mail: mail, cfg: cfg, log: loggerOr(log), Now: time.Now}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Session is returned by a successful login.
type Session struct {
	ID           bson.ObjectID `json:"_id"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	ProfilePhoto string        `json:"profilePhoto"`
	IsAdmin      bool          `json:"isAdmin"`
	Token        string        `json:"token"`
	IsVerified   bool          `json:"isVerified"`
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*m.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)
	switch {
	case in.FirstName == "":
		return nil, invalidf("First name is required")
	case in.LastName == "":
		return nil, invalidf("Last name is required")
	case !validEmail(in.Email):
		return nil, invalidf("A valid email is required")
	case in.Password == "":
		return nil, invalidf("Password is required")
	}

	if _, err := s.users.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr("find user by email", err, nil)
	}

	u := &m.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		ProfilePhoto: m.DefaultProfilePhoto,
		Role:         m.RoleBlogger,
		ViewedBy:     []bson.ObjectID{},
		Followers:    []bson.ObjectID{},
		Following:    []bson.ObjectID{},
	}
	if err := u.SetPassword(in.Password, s.Now()); err != nil {
		return nil, &Error{Kind: KindInternal, Err: err}
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storeErr("create user", err, nil)
	}
	s.log.InfoContext(ctx, "user registered", "user", u.ID.Hex())
	return u, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr("find user by email", err, nil)
	}
	if !u.PasswordMatches(password) {
		return nil, ErrInvalidCredentials
	}
	if u.IsBlocked {
		return nil, blockedError(u.FullName())
	}
	tok, err := s.IssueJWT(u.ID)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Err: err}
	}
	return &Session{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
		IsAdmin:      u.IsAdmin,
		Token:        tok,
		IsVerified:   u.IsAccountVerified,
	}, nil
}

// IssueJWT signs an HS256 token for the user id.
func (s *IdentityService) IssueJWT(id bson.ObjectID) (string, error) {
	now := s.Now()
	claims := m.Claims{
		UID: id.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *IdentityService) UpdatePassword(ctx context.Context, userID bson.ObjectID, password string) (*m.User, error) {
	if password == "" {
		return nil, invalidf("Password is required")
	}
	u, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr("find user", err, ErrUserNotFound)
	}
	if err := s.setPassword(ctx, u, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *IdentityService) setPassword(ctx context.Context, u *m.User, password string) error {
	if err := u.SetPassword(password, s.Now()); err != nil {
		return &Error{Kind: KindInternal, Err: err}
	}
	return storeErr("update password", s.users.UpdatePassword(ctx, u.ID, u.Password, *u.PasswordChangeAt), ErrUserNotFound)
}

// RequestVerification mails a verification link to the user.
func (s *IdentityService) RequestVerification(ctx context.Context, userID bson.ObjectID) (*m.User, error) {
	u, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr("find user", err, ErrUserNotFound)
	}
	err = s.issueAndSend(ctx, u, m.TokenVerification, "Verify your account", func(secret string) string {
		return fmt.Sprintf("If you requested to verify your account, verify now within %d minutes. Otherwise, ignore this message. <a href='%s/verify-account/%s'>Click to verify your account.</a>",
			int(s.tokens.ttl.Minutes()), s.cfg.FrontendURL, secret)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *IdentityService) VerifyAccount(ctx context.Context, secret string) (*m.User, error) {
	u, err := s.tokens.Consume(ctx, m.TokenVerification, secret)
	if err != nil {
		return nil, err
	}
	u, err = s.users.SetAccountVerified(ctx, u.ID)
	if err != nil {
		return nil, storeErr("mark verified", err, ErrUserNotFound)
	}
	return u, nil
}

// RequestPasswordReset mails a reset link to the account with email.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) (*m.User, error) {
	u, err := s.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, storeErr("find user by email", err, ErrUserNotFound)
	}
	err = s.issueAndSend(ctx, u, m.TokenPasswordReset, "Reset your password", func(secret string) string {
		return fmt.Sprintf("If you requested to reset your password, reset within %d minutes. Otherwise, ignore this message. <a href='%s/reset-password/%s'>Click to reset your password.</a>",
			int(s.tokens.ttl.Minutes()), s.cfg.FrontendURL, secret)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *IdentityService) ResetPassword(ctx context.Context, secret, password string) (*m.User, error) {
	if password == "" {
		return nil, invalidf("Password is required")
	}
	u, err := s.tokens.Consume(ctx, m.TokenPasswordReset, secret)
	if err != nil {
		return nil, err
	}
	if err := s.setPassword(ctx, u, password); err != nil {
		return nil, err
	}
	return u, nil
}

// issueAndSend stores a fresh token and mails it. If delivery fails the
// token is revoked so no undeliverable secret stays redeemable.
func (s *IdentityService) issueAndSend(ctx context.Context, u *m.User, p m.TokenPurpose, subject string, body func(secret string) string) error {
	secret, err := s.tokens.Issue(ctx, u.ID, p)
	if err != nil {
		return err
	}

	mctx, cancel := upstreamContext(ctx, s.cfg.UpstreamTimeout)
	defer cancel()
	err = s.mail.Send(mctx, mailer.Message{
		To:      u.Email,
		From:    s.cfg.MailFrom,
		Subject: subject,
		HTML:    body(secret),
	})
	if err == nil {
		return nil
	}

	s.log.ErrorContext(ctx, "token mail failed", "user", u.ID.Hex(), "purpose", string(p), "err", err)
	if rerr := s.tokens.Revoke(ctx, u.ID, p); rerr != nil {
		s.log.ErrorContext(ctx, "token revoke failed", "user", u.ID.Hex(), "purpose", string(p), "err", rerr)
	}
	return upstream("could not send email, try again later", err)
}
