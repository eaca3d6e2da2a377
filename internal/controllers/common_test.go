package controllers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/internal/services"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrInvalidInput, fiber.StatusBadRequest},
		{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{services.ErrUnauthenticated, fiber.StatusUnauthorized},
		{services.ErrBlocked, fiber.StatusForbidden},
		{services.ErrForbidden, fiber.StatusForbidden},
		{services.ErrQuotaExceeded, fiber.StatusForbidden},
		{services.ErrPostNotFound, fiber.StatusNotFound},
		{services.ErrAlreadyFollowing, fiber.StatusConflict},
		{services.ErrProfane, fiber.StatusBadRequest},
		{services.ErrTokenExpired, fiber.StatusBadRequest},
		{services.ErrUpstream, fiber.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", services.ErrUserNotFound), fiber.StatusNotFound},
		{errors.New("driver exploded"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.want {
			t.Fatalf("StatusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
