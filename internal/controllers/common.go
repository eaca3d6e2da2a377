package controllers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stepweaver/mern-blog-server/dto"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

const DefaultTimeout = 5 * time.Second

// Base carries what every handler needs: a logger and the per-request store deadline.
type Base struct {
	Log     *slog.Logger
	Timeout time.Duration
}

func (b Base) logger() *slog.Logger {
	if b.Log == nil {
		return slog.Default()
	}
	return b.Log
}

func (b Base) ctx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	d := b.Timeout
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(c.UserContext(), d)
}

// StatusOf maps a service error to its HTTP status.
func StatusOf(err error) int {
	if errors.Is(err, services.ErrInvalidCredentials) {
		return fiber.StatusUnauthorized
	}
	switch services.KindOf(err) {
	case services.KindInvalid, services.KindProfane, services.KindExpired:
		return fiber.StatusBadRequest
	case services.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case services.KindUnauthorized, services.KindQuotaExceeded:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindUpstream:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func (b Base) fail(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		b.logger().ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "status", status, "err", err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: services.PublicMessage(err)})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}

func parseHexID(s string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(s)
	return id, err == nil
}

const invalidID = "The id is not valid or found"
