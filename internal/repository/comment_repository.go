package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/stepweaver/mern-blog-server/internal/models"
)

type CommentRepository struct {
	ColComments *mongo.Collection
}

func (r *CommentRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	now := time.Now().UTC()
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.ColComments.InsertOne(ctx, c)
	return translate(err)
}

func (r *CommentRepository) FindCommentByID(ctx context.Context, id bson.ObjectID) (*models.Comment, error) {
	var c models.Comment
	if err := r.ColComments.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CommentRepository) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]models.Comment, error) {
	cur, err := r.ColComments.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Comment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CommentRepository) ListComments(ctx context.Context) ([]models.Comment, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// ListCommentsByPost pages a post's comments newest first; before==nil starts at the top.
func (r *CommentRepository) ListCommentsByPost(ctx context.Context, postID bson.ObjectID, before *time.Time, beforeID bson.ObjectID, limit int64) ([]models.Comment, error) {
	filter := bson.M{"post": postID}
	if before != nil {
		for k, v := range keysetBefore(*before, beforeID) {
			filter[k] = v
		}
	}
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, filter, opts)
}

func (r *CommentRepository) ListCommentsForPosts(ctx context.Context, postIDs []bson.ObjectID) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return []models.Comment{}, nil
	}
	return r.find(ctx, bson.M{"post": bson.M{"$in": postIDs}}, options.Find().SetSort(newestFirst))
}

func (r *CommentRepository) UpdateCommentDescription(ctx context.Context, id bson.ObjectID, desc string) (*models.Comment, error) {
	var c models.Comment
	err := r.ColComments.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"description": desc, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CommentRepository) DeleteComment(ctx context.Context, id bson.ObjectID) error {
	res, err := r.ColComments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentRepository) DeleteCommentsByPosts(ctx context.Context, postIDs []bson.ObjectID) error {
	if len(postIDs) == 0 {
		return nil
	}
	_, err := r.ColComments.DeleteMany(ctx, bson.M{"post": bson.M{"$in": postIDs}})
	return err
}

func (r *CommentRepository) DeleteCommentsByUser(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.ColComments.DeleteMany(ctx, bson.M{"user": userID})
	return err
}
