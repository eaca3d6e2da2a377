package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/stepweaver/mern-blog-server/internal/models"
)

type CategoryRepository struct {
	ColCategories *mongo.Collection
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.ColCategories.InsertOne(ctx, c)
	return translate(err)
}

func (r *CategoryRepository) FindCategoryByID(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	var c models.Category
	if err := r.ColCategories.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	cur, err := r.ColCategories.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CategoryRepository) UpdateCategoryTitle(ctx context.Context, id bson.ObjectID, title string) (*models.Category, error) {
	var c models.Category
	err := r.ColCategories.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"title": title, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id bson.ObjectID) error {
	res, err := r.ColCategories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
