package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/dto"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type AuthHandler struct {
	Base
	Identity *services.IdentityService
}

// Register godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterReq  true  "Registration payload"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body dto.RegisterReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Identity.Register(ctx, services.RegisterInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Password:  body.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(u))
}

// Login godoc
// @Summary      Log in
// @Description  Returns the profile summary and a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginReq  true  "Credentials"
// @Success      200   {object}  services.Session
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body dto.LoginReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	sess, err := h.Identity.Login(ctx, body.Email, body.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess)
}

// ForgetPasswordToken godoc
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ForgetPasswordReq  true  "Account email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/users/forget-password-token [post]
func (h *AuthHandler) ForgetPasswordToken(c *fiber.Ctx) error {
	var body dto.ForgetPasswordReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Identity.RequestPasswordReset(ctx, body.Email)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "A reset link has been sent to " + u.Email})
}

// ResetPassword godoc
// @Summary      Reset a password with an emailed token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ResetPasswordReq  true  "Token and new password"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/reset-password [put]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var body dto.ResetPasswordReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Identity.ResetPassword(ctx, body.Token, body.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(u))
}
