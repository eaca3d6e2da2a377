package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/dto"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type CommentHandler struct {
	Base
	Comments *services.CommentService
}

// Create godoc
// @Summary      Comment on a post
// @Description  Profanity is masked, not rejected
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateCommentReq  true  "Post and text"
// @Success      201   {object}  models.Comment
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/comments [post]
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	var body dto.CreateCommentReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	postID, ok := parseHexID(body.PostID)
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	com, err := h.Comments.Create(ctx, middleware.CurrentUser(c).ID, postID, body.Description)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(com)
}

// List godoc
// @Summary      List all comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Comment
// @Router       /api/comments [get]
func (h *CommentHandler) List(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.Comments.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// ListByPost godoc
// @Summary      List comments of a post
// @Description  Cursor pagination, newest first
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path   string  true   "Post ID (hex ObjectID)"
// @Param        limit   query  int     false  "Max items per page" minimum(1) maximum(100) default(20)
// @Param        cursor  query  string  false  "Opaque next-page cursor"
// @Success      200     {object} dto.ListCommentsResp
// @Failure      400     {object} dto.ErrorResponse
// @Router       /api/comments/post/{postId} [get]
func (h *CommentHandler) ListByPost(c *fiber.Ctx) error {
	postID, ok := parseHexID(c.Params("postId"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	page, err := h.Comments.ListByPost(ctx, postID, c.Query("cursor"), int64(c.QueryInt("limit")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListCommentsResp(page))
}

// Get godoc
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID (hex ObjectID)"
// @Success      200  {object}  models.Comment
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/comments/{id} [get]
func (h *CommentHandler) Get(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	com, err := h.Comments.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(com)
}

// Update godoc
// @Summary      Update a comment
// @Description  Only the owner or an admin can update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Comment ID (hex ObjectID)"
// @Param        body  body      dto.UpdateCommentReq  true  "New text"
// @Success      200   {object}  models.Comment
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	var body dto.UpdateCommentReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	com, err := h.Comments.Update(ctx, middleware.CurrentUser(c), id, body.Description)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(com)
}

// Delete godoc
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID (hex ObjectID)"
// @Success      200  {object}  models.Comment
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	com, err := h.Comments.Delete(ctx, middleware.CurrentUser(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(com)
}
