package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
)

type CategoryService struct {
	users      UserStore
	categories CategoryStore
}

func NewCategoryService(users UserStore, categories CategoryStore) *CategoryService {
	return &CategoryService{users: users, categories: categories}
}

type CategoryDetail struct {
	Category m.Category
	User     *m.User
}

func (s *CategoryService) Create(ctx context.Context, actor *m.User, title string) (*m.Category, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalidf("Category title is required")
	}
	c := &m.Category{Title: title, User: actor.ID}
	if err := s.categories.CreateCategory(ctx, c); err != nil {
		return nil, storeErr("create category", err, nil)
	}
	return c, nil
}

// List returns categories newest first with their creators.
func (s *CategoryService) List(ctx context.Context) ([]CategoryDetail, error) {
	list, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, storeErr("list categories", err, nil)
	}
	ids := make([]bson.ObjectID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.User)
	}
	users, err := s.users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("find category users", err, nil)
	}
	byID := make(map[bson.ObjectID]*m.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	out := make([]CategoryDetail, len(list))
	for i, c := range list {
		out[i] = CategoryDetail{Category: c, User: byID[c.User]}
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id bson.ObjectID) (*CategoryDetail, error) {
	c, err := s.categories.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, storeErr("find category", err, ErrCategoryNotFound)
	}
	d := &CategoryDetail{Category: *c}
	if u, err := s.users.FindUserByID(ctx, c.User); err == nil {
		d.User = u
	}
	return d, nil
}

func (s *CategoryService) Update(ctx context.Context, actor *m.User, id bson.ObjectID, title string) (*m.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalidf("Category title is required")
	}
	c, err := s.categories.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, storeErr("find category", err, ErrCategoryNotFound)
	}
	if err := canModify(actor, c.User); err != nil {
		return nil, err
	}
	c, err = s.categories.UpdateCategoryTitle(ctx, id, title)
	if err != nil {
		return nil, storeErr("update category", err, ErrCategoryNotFound)
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor *m.User, id bson.ObjectID) (*m.Category, error) {
	c, err := s.categories.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, storeErr("find category", err, ErrCategoryNotFound)
	}
	if err := canModify(actor, c.User); err != nil {
		return nil, err
	}
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return nil, storeErr("delete category", err, ErrCategoryNotFound)
	}
	return c, nil
}
