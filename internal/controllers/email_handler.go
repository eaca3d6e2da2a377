package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/dto"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type EmailHandler struct {
	Base
	Email *services.EmailService
}

// Send godoc
// @Summary      Send an email through the platform
// @Description  Profane messages are refused
// @Tags         email
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.SendEmailReq  true  "Recipient, subject and text"
// @Success      201   {object}  models.EmailMessage
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/email [post]
func (h *EmailHandler) Send(c *fiber.Ctx) error {
	var body dto.SendEmailReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	msg, err := h.Email.Send(ctx, middleware.CurrentUser(c).ID, services.SendEmailInput{
		To:      body.To,
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
