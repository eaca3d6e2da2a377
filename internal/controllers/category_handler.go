package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stepweaver/mern-blog-server/dto"
	"github.com/stepweaver/mern-blog-server/internal/middleware"
	"github.com/stepweaver/mern-blog-server/internal/services"
)

type CategoryHandler struct {
	Base
	Categories *services.CategoryService
}

// Create godoc
// @Summary      Create a category
// @Tags         category
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CategoryReq  true  "Title"
// @Success      201   {object}  models.Category
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/category [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var body dto.CategoryReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	cat, err := h.Categories.Create(ctx, middleware.CurrentUser(c), body.Title)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// List godoc
// @Summary      List categories
// @Tags         category
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/category [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.Categories.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewCategoryResponse(d))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get a category
// @Tags         category
// @Produce      json
// @Param        id   path      string  true  "Category ID (hex ObjectID)"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/category/{id} [get]
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	d, err := h.Categories.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewCategoryResponse(*d))
}

// Update godoc
// @Summary      Rename a category
// @Tags         category
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Category ID (hex ObjectID)"
// @Param        body  body      dto.CategoryReq  true  "Title"
// @Success      200   {object}  models.Category
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/category/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	var body dto.CategoryReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	cat, err := h.Categories.Update(ctx, middleware.CurrentUser(c), id, body.Title)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cat)
}

// Delete godoc
// @Summary      Delete a category
// @Tags         category
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID (hex ObjectID)"
// @Success      200  {object}  models.Category
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/category/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseHexID(c.Params("id"))
	if !ok {
		return badRequest(c, invalidID)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	cat, err := h.Categories.Delete(ctx, middleware.CurrentUser(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cat)
}
