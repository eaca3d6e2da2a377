package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/stepweaver/mern-blog-server/internal/models"
)

type UserRepository struct {
	Client   *mongo.Client
	ColUsers *mongo.Collection
	// PostsCollection is joined by ListUsersWithPosts.
	PostsCollection string
	// Transactions wraps two-document writes in a session transaction.
	// Requires a replica set.
	Transactions bool
}

func emptyIfNil(ids []bson.ObjectID) []bson.ObjectID {
	if ids == nil {
		return []bson.ObjectID{}
	}
	return ids
}

// inTx runs fn inside a transaction when enabled, otherwise directly.
func (r *UserRepository) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.Transactions || r.Client == nil {
		return fn(ctx)
	}
	sess, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	u.CreatedAt, u.UpdatedAt = now, now
	u.ViewedBy = emptyIfNil(u.ViewedBy)
	u.Followers = emptyIfNil(u.Followers)
	u.Following = emptyIfNil(u.Following)

	_, err := r.ColUsers.InsertOne(ctx, u)
	return translate(err)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.ColUsers.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindUsersByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cur, err := r.ColUsers.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsersWithPosts joins every user with the posts they authored, newest users first.
func (r *UserRepository) ListUsersWithPosts(ctx context.Context) ([]models.UserWithPosts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.PostsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "author"},
			{Key: "as", Value: "posts"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	cur, err := r.ColUsers.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.UserWithPosts{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) update(ctx context.Context, id bson.ObjectID, update bson.M) (*models.User, error) {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = time.Now().UTC()

	var u models.User
	err := r.ColUsers.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateUserProfile(ctx context.Context, id bson.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if upd.FirstName != nil {
		set["firstName"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["lastName"] = *upd.LastName
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id bson.ObjectID, hash string, changedAt time.Time) error {
	_, err := r.update(ctx, id, bson.M{"$set": bson.M{"password": hash, "passwordChangeAt": changedAt}})
	return err
}

func (r *UserRepository) SetBlocked(ctx context.Context, id bson.ObjectID, blocked bool) (*models.User, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"isBlocked": blocked}})
}

func (r *UserRepository) SetAccountVerified(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"isAccountVerified": true}})
}

func (r *UserRepository) SetProfilePhoto(ctx context.Context, id bson.ObjectID, url string) (*models.User, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"profilePhoto": url}})
}

func (r *UserRepository) IncPostCount(ctx context.Context, id bson.ObjectID, delta int) error {
	res, err := r.ColUsers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"postCount": delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetToken(ctx context.Context, id bson.ObjectID, p models.TokenPurpose, hash string, expires time.Time) error {
	hashField, expField := p.Fields()
	_, err := r.update(ctx, id, bson.M{"$set": bson.M{hashField: hash, expField: expires}})
	return err
}

func (r *UserRepository) ClearToken(ctx context.Context, id bson.ObjectID, p models.TokenPurpose) error {
	hashField, expField := p.Fields()
	_, err := r.update(ctx, id, bson.M{"$unset": bson.M{hashField: "", expField: ""}})
	return err
}

// ConsumeToken matches and clears in one FindOneAndUpdate so two concurrent
// redemptions cannot both succeed.
func (r *UserRepository) ConsumeToken(ctx context.Context, p models.TokenPurpose, hash string, now time.Time) (*models.User, error) {
	hashField, expField := p.Fields()
	var u models.User
	err := r.ColUsers.FindOneAndUpdate(
		ctx,
		bson.M{hashField: hash, expField: bson.M{"$gt": now}},
		bson.M{
			"$unset": bson.M{hashField: "", expField: ""},
			"$set":   bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) exists(ctx context.Context, id bson.ObjectID) (bool, error) {
	n, err := r.ColUsers.CountDocuments(ctx, bson.M{"_id": id})
	return n > 0, err
}

func (r *UserRepository) AddViewer(ctx context.Context, ownerID, viewerID bson.ObjectID) (bool, error) {
	res, err := r.ColUsers.UpdateOne(
		ctx,
		bson.M{"_id": ownerID, "viewedBy": bson.M{"$ne": viewerID}},
		bson.M{"$push": bson.M{"viewedBy": viewerID}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}
	ok, err := r.exists(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNotFound
	}
	return false, nil
}

// AddFollow pushes followerID onto the target's followers and targetID onto
// the follower's following.
func (r *UserRepository) AddFollow(ctx context.Context, followerID, targetID bson.ObjectID) error {
	return r.inTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		res, err := r.ColUsers.UpdateOne(
			ctx,
			bson.M{"_id": targetID, "followers": bson.M{"$ne": followerID}},
			bson.M{
				"$push": bson.M{"followers": followerID},
				"$set":  bson.M{"isFollowing": true, "updatedAt": now},
			},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			ok, err := r.exists(ctx, targetID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrNotFound
			}
			return ErrDuplicate
		}

		res, err = r.ColUsers.UpdateOne(
			ctx,
			bson.M{"_id": followerID},
			bson.M{
				"$addToSet": bson.M{"following": targetID},
				"$set":      bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *UserRepository) RemoveFollow(ctx context.Context, followerID, targetID bson.ObjectID) error {
	return r.inTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		if _, err := r.ColUsers.UpdateOne(
			ctx,
			bson.M{"_id": targetID},
			bson.M{
				"$pull": bson.M{"followers": followerID},
				"$set":  bson.M{"isFollowing": false, "updatedAt": now},
			},
		); err != nil {
			return err
		}
		_, err := r.ColUsers.UpdateOne(
			ctx,
			bson.M{"_id": followerID},
			bson.M{
				"$pull": bson.M{"following": targetID},
				"$set":  bson.M{"updatedAt": now},
			},
		)
		return err
	})
}

func (r *UserRepository) PullUserReferences(ctx context.Context, id bson.ObjectID) error {
	_, err := r.ColUsers.UpdateMany(
		ctx,
		bson.M{"$or": []bson.M{{"followers": id}, {"following": id}, {"viewedBy": id}}},
		bson.M{"$pull": bson.M{"followers": id, "following": id, "viewedBy": id}},
	)
	return err
}

func (r *UserRepository) DeleteUser(ctx context.Context, id bson.ObjectID) error {
	res, err := r.ColUsers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
