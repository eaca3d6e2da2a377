package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stepweaver/mern-blog-server/internal/mailer"
	m "github.com/stepweaver/mern-blog-server/internal/models"
)

// EmailService lets a signed-in user mail an address through the platform.
type EmailService struct {
	users      UserStore
	messages   MessageStore
	moderation *ModerationService
	mail       Mailer
	from       string
	log        *slog.Logger

	UpstreamTimeout time.Duration
}

func NewEmailService(users UserStore, messages MessageStore, moderation *ModerationService, mail Mailer, from string, log *slog.Logger) *EmailService {
	return &EmailService{
		users:           users,
		messages:        messages,
		moderation:      moderation,
		mail:            mail,
		from:            from,
		log:             loggerOr(log),
		UpstreamTimeout: DefaultUpstreamTimeout,
	}
}

type SendEmailInput struct {
	To      string
	Subject string
	Message string
}

// Send screens the message, delivers it and then records it. Profane
// messages are rejected without blocking the sender.
func (s *EmailService) Send(ctx context.Context, senderID bson.ObjectID, in SendEmailInput) (*m.EmailMessage, error) {
	in.To = NormalizeEmail(in.To)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	switch {
	case !validEmail(in.To):
		return nil, invalidf("A valid recipient is required")
	case in.Subject == "":
		return nil, invalidf("Subject is required")
	case in.Message == "":
		return nil, invalidf("Message is required")
	}

	sender, err := s.users.FindUserByID(ctx, senderID)
	if err != nil {
		return nil, storeErr("find sender", err, ErrUserNotFound)
	}
	if err := s.moderation.CheckBlocked(sender); err != nil {
		return nil, err
	}
	if err := s.moderation.ScreenContent(in.Subject, in.Message); err != nil {
		return nil, ErrProfaneMessage
	}

	mctx, cancel := upstreamContext(ctx, s.UpstreamTimeout)
	err = s.mail.Send(mctx, mailer.Message{To: in.To, From: s.from, Subject: in.Subject, Text: in.Message})
	cancel()
	if err != nil {
		s.log.ErrorContext(ctx, "email message delivery failed", "sender", senderID.Hex(), "err", err)
		return nil, upstream("Email failed. Try again later.", err)
	}

	msg := &m.EmailMessage{
		SentBy:  sender.ID,
		From:    sender.Email,
		To:      in.To,
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return nil, storeErr("save email message", err, nil)
	}
	return msg, nil
}
