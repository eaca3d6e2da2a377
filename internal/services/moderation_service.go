package services

import (
	"context"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
)

// ModerationService gates blocked users and applies the one-strike
// profanity rule to authored content.
type ModerationService struct {
	users  UserStore
	filter ProfanityChecker
	log    *slog.Logger
}

func NewModerationService(users UserStore, filter ProfanityChecker, log *slog.Logger) *ModerationService {
	return &ModerationService{users: users, filter: filter, log: loggerOr(log)}
}

// ScreenContent classifies the texts together.
func (s *ModerationService) ScreenContent(texts ...string) error {
	if s.filter == nil {
		return nil
	}
	if s.filter.IsProfane(strings.Join(texts, " ")) {
		return ErrProfane
	}
	return nil
}

// EnforceContent blocks u when the texts are profane. The block is persisted
// before ErrProfane is returned; a failed block write is an upstream failure.
func (s *ModerationService) EnforceContent(ctx context.Context, u *m.User, texts ...string) error {
	if err := s.ScreenContent(texts...); err == nil {
		return nil
	}
	if _, err := s.users.SetBlocked(ctx, u.ID, true); err != nil {
		s.log.ErrorContext(ctx, "block after profanity failed", "user", u.ID.Hex(), "err", err)
		return upstream("could not apply moderation, try again", err)
	}
	u.IsBlocked = true
	s.log.WarnContext(ctx, "user blocked for profanity", "user", u.ID.Hex())
	return ErrProfane
}

func (s *ModerationService) CheckBlocked(u *m.User) error {
	if u.IsBlocked {
		return blockedError(u.FullName())
	}
	return nil
}

// SetBlocked is admin-only and idempotent.
func (s *ModerationService) SetBlocked(ctx context.Context, actor *m.User, targetID bson.ObjectID, blocked bool) (*m.User, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, ErrForbidden
	}
	u, err := s.users.SetBlocked(ctx, targetID, blocked)
	if err != nil {
		return nil, storeErr("set blocked", err, ErrUserNotFound)
	}
	s.log.InfoContext(ctx, "block state changed", "admin", actor.ID.Hex(), "user", targetID.Hex(), "blocked", blocked)
	return u, nil
}
