package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/dto"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type UserHandler struct {
	Base
	Users         *services.UserService
	Identity      *services.IdentityService
	Relationships *services.RelationshipService
	Moderation    *services.ModerationService
}

// List godoc
// @Summary      List users with their posts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.UserWithPostsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	rows, err := h.Users.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUsersWithPosts(rows))
}

// Get godoc
// @Summary      User details
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID (hex ObjectID)"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(u))
}

// Profile godoc
// @Summary      User profile
// @Description  Records the caller as a viewer and returns the profile with posts and viewers
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID (hex ObjectID)"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/profile/{id} [get]
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	d, err := h.Users.Profile(ctx, middleware.CurrentUser(c).ID, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewProfileResponse(d))
}

// Delete godoc
// @Summary      Delete a user
// @Description  Removes the user with their posts, comments, reactions and graph edges. Self or admin only.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID (hex ObjectID)"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Users.Delete(ctx, middleware.CurrentUser(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(u))
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UpdateProfileReq  true  "Fields to change"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var body dto.UpdateProfileReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, middleware.CurrentUser(c).ID, body.ToUpdate())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(u))
}

// UpdatePassword godoc
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.PasswordReq  true  "New password"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/password [put]
func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	var body dto.PasswordReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Identity.UpdatePassword(ctx, middleware.CurrentUser(c).ID, body.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(u))
}

// Follow godoc
// @Summary      Follow a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.FollowReq  true  "User to follow"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/follow [put]
func (h *UserHandler) Follow(c *fiber.Ctx) error {
	var body dto.FollowReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	target, ok := parseHexID(body.FollowID)
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Relationships.Follow(ctx, middleware.CurrentUser(c).ID, target); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "You have successfully followed this user"})
}

// Unfollow godoc
// @Summary      Unfollow a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UnfollowReq  true  "User to unfollow"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/unfollow [put]
func (h *UserHandler) Unfollow(c *fiber.Ctx) error {
	var body dto.UnfollowReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	target, ok := parseHexID(body.UnFollowID)
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Relationships.Unfollow(ctx, middleware.CurrentUser(c).ID, target); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "You have successfully unfollowed this user"})
}

func (h *UserHandler) setBlocked(c *fiber.Ctx, blocked bool) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Moderation.SetBlocked(ctx, middleware.CurrentUser(c), id, blocked)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(u))
}

// Block godoc
// @Summary      Block a user (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID (hex ObjectID)"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/block-user/{id} [put]
func (h *UserHandler) Block(c *fiber.Ctx) error { return h.setBlocked(c, true) }

// Unblock godoc
// @Summary      Unblock a user (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID (hex ObjectID)"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/unblock-user/{id} [put]
func (h *UserHandler) Unblock(c *fiber.Ctx) error { return h.setBlocked(c, false) }

// GenerateVerifyToken godoc
// @Summary      Email an account verification link
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MessageResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/users/generate-verify-email-token [post]
func (h *UserHandler) GenerateVerifyToken(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Identity.RequestVerification(ctx, middleware.CurrentUser(c).ID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "A verification link has been sent to " + u.Email})
}

// VerifyAccount godoc
// @Summary      Verify the account with an emailed token
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.TokenReq  true  "Verification token"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/verify-account [put]
func (h *UserHandler) VerifyAccount(c *fiber.Ctx) error {
	var body dto.TokenReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Identity.VerifyAccount(ctx, body.Token)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(u))
}

// UploadProfilePhoto godoc
// @Summary      Upload a profile photo
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "Image file"
// @Success      200    {object}  dto.UserResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      502    {object}  dto.ErrorResponse
// @Router       /api/users/profile-photo-upload [put]
func (h *UserHandler) UploadProfilePhoto(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Users.UploadProfilePhoto(ctx, middleware.CurrentUser(c).ID, middleware.UploadPath(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewUserResponse(u))
}
