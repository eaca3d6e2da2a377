package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/dto"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type PostHandler struct {
	Base
	Posts     *services.PostService
	Reactions *services.ReactionService
}

// Create godoc
// @Summary      Create a post
// @Description  Blocked authors, profane content and Noob accounts over quota are rejected
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        category     formData  string  true   "Category"
// @Param        description  formData  string  true   "Body"
// @Param        image        formData  file    false  "Cover image"
// @Success      201  {object}  models.Post
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c *fiber.Ctx) error {
	var body dto.CreatePostReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	p, err := h.Posts.Create(ctx, middleware.CurrentUser(c).ID, services.CreatePostInput{
		Title:       body.Title,
		Category:    body.Category,
		Description: body.Description,
		ImagePath:   middleware.UploadPath(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// List godoc
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Success      200       {array}   dto.PostResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.Posts.List(ctx, c.Query("category"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewPostResponses(list))
}

// Page godoc
// @Summary      Page through posts newest first
// @Tags         posts
// @Produce      json
// @Param        limit   query     int     false  "Max items per page" minimum(1) maximum(100) default(20)
// @Param        cursor  query     string  false  "Opaque next-page cursor"
// @Success      200     {object}  dto.ListPostsResp
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/posts/page [get]
func (h *PostHandler) Page(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	page, err := h.Posts.Page(ctx, c.Query("cursor"), int64(c.QueryInt("limit")))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListPostsResp(page))
}

// Get godoc
// @Summary      Get a post
// @Description  Increments the view counter
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID (hex ObjectID)"
// @Success      200  {object}  dto.PostDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	d, err := h.Posts.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewPostDetailResponse(d))
}

// Update godoc
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post ID (hex ObjectID)"
// @Param        body  body      dto.UpdatePostReq  true  "Fields to change"
// @Success      200   {object}  models.Post
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	var body dto.UpdatePostReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	p, err := h.Posts.Update(ctx, middleware.CurrentUser(c), id, body.ToUpdate())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// Delete godoc
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID (hex ObjectID)"
// @Success      200  {object}  models.Post
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	p, err := h.Posts.Delete(ctx, middleware.CurrentUser(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

func (h *PostHandler) react(c *fiber.Ctx, like bool) error {
	var body dto.ReactionReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	postID, ok := parseHexID(body.PostID)
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	toggle := h.Reactions.ToggleUnlike
	if like {
		toggle = h.Reactions.ToggleLike
	}
	p, err := toggle(ctx, middleware.CurrentUser(c).ID, postID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// ToggleLike godoc
// @Summary      Toggle a like
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.ReactionReq  true  "Post to like"
// @Success      200   {object}  models.Post
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/posts/likes [put]
func (h *PostHandler) ToggleLike(c *fiber.Ctx) error { return h.react(c, true) }

// ToggleUnlike godoc
// @Summary      Toggle a dislike
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.ReactionReq  true  "Post to dislike"
// @Success      200   {object}  models.Post
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/posts/unlikes [put]
func (h *PostHandler) ToggleUnlike(c *fiber.Ctx) error { return h.react(c, false) }
