package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/stepweaver/mern-blog-server/internal/models"
)

type PostRepository struct {
	ColPosts *mongo.Collection
}

func (r *PostRepository) CreatePost(ctx context.Context, p *models.Post) error {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	p.CreatedAt, p.UpdatedAt = now, now
	p.Likes = emptyIfNil(p.Likes)
	p.UnLikes = emptyIfNil(p.UnLikes)

	_, err := r.ColPosts.InsertOne(ctx, p)
	return translate(err)
}

func (r *PostRepository) FindPostByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := r.ColPosts.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// keysetBefore matches documents strictly older than (at, id) in
// createdAt desc, _id desc order.
func keysetBefore(at time.Time, id bson.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"createdAt": bson.M{"$lt": at}},
		{"createdAt": at, "_id": bson.M{"$lt": id}},
	}}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (r *PostRepository) ListPosts(ctx context.Context, q models.PostQuery) ([]models.Post, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if !q.AuthorID.IsZero() {
		filter["author"] = q.AuthorID
	}
	if q.Before != nil {
		for k, v := range keysetBefore(*q.Before, q.BeforeID) {
			filter[k] = v
		}
	}

	opts := options.Find().SetSort(newestFirst)
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cur, err := r.ColPosts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	var p models.Post
	err := r.ColPosts.FindOneAndUpdate(
		ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PostRepository) UpdatePostContent(ctx context.Context, id bson.ObjectID, upd models.PostUpdate) (*models.Post, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *PostRepository) IncPostViews(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"numViews": 1}})
}

// reactionFilter asserts userID currently holds state on the post.
func reactionFilter(postID, userID bson.ObjectID, state models.Reaction) bson.M {
	f := bson.M{"_id": postID}
	switch state {
	case models.ReactionLiked:
		f["likes"] = userID
	case models.ReactionDisliked:
		f["unLikes"] = userID
	default:
		f["likes"] = bson.M{"$ne": userID}
		f["unLikes"] = bson.M{"$ne": userID}
	}
	return f
}

func (r *PostRepository) SwapReaction(ctx context.Context, postID, userID bson.ObjectID, from, to models.Reaction) (*models.Post, error) {
	isLiked, isUnLiked := to.Flags()
	update := bson.M{
		"$set": bson.M{"isLiked": isLiked, "isUnLiked": isUnLiked, "updatedAt": time.Now().UTC()},
	}
	// a field may not appear in both $pull and $addToSet
	pull := bson.M{}
	switch from {
	case models.ReactionLiked:
		pull["likes"] = userID
	case models.ReactionDisliked:
		pull["unLikes"] = userID
	}
	if len(pull) > 0 {
		update["$pull"] = pull
	}
	switch to {
	case models.ReactionLiked:
		update["$addToSet"] = bson.M{"likes": userID}
	case models.ReactionDisliked:
		update["$addToSet"] = bson.M{"unLikes": userID}
	}

	p, err := r.findAndUpdate(ctx, reactionFilter(postID, userID, from), update)
	if !errors.Is(err, ErrNotFound) {
		return p, err
	}
	n, err := r.ColPosts.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStateChanged
}

func (r *PostRepository) DeletePost(ctx context.Context, id bson.ObjectID) error {
	res, err := r.ColPosts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePostsByAuthor removes every post by authorID and returns their ids.
func (r *PostRepository) DeletePostsByAuthor(ctx context.Context, authorID bson.ObjectID) ([]bson.ObjectID, error) {
	cur, err := r.ColPosts.Find(ctx, bson.M{"author": authorID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]bson.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	if len(ids) == 0 {
		return ids, nil
	}
	if _, err := r.ColPosts.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostRepository) PullReactionsBy(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.ColPosts.UpdateMany(
		ctx,
		bson.M{"$or": []bson.M{{"likes": userID}, {"unLikes": userID}}},
		bson.M{"$pull": bson.M{"likes": userID, "unLikes": userID}},
	)
	return err
}
