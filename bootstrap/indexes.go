package bootstrap

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/stepweaver/mern-blog-server/internal/repository"
)

type indexSpec struct {
	coll   string
	name   string
	keys   bson.D
	unique bool
}

var indexes = []indexSpec{
	{repository.CollUsers, "uniq_email", bson.D{{Key: "email", Value: 1}}, true},
	{repository.CollPosts, "posts_newest", bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, false},
	{repository.CollPosts, "posts_by_author", bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}, false},
	{repository.CollComments, "comments_by_post", bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, false},
	{repository.CollComments, "comments_by_user", bson.D{{Key: "user", Value: 1}}, false},
}

// EnsureIndexes creates the unique email index and the listing indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, s := range indexes {
		opts := options.Index().SetName(s.name)
		if s.unique {
			opts.SetUnique(true)
		}
		_, err := db.Collection(s.coll).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: s.keys, Options: opts})
		if err != nil {
			return fmt.Errorf("index %s on %s: %w", s.name, s.coll, err)
		}
	}
	return nil
}
