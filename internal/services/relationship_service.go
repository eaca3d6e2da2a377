package services

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

// NoobPostLimit is how many posts a Noob account may create.
const NoobPostLimit = 2

// RelationshipService maintains the follow graph. A follows B exactly when
// A is in B.followers and B is in A.following.
type RelationshipService struct {
	users UserStore
	log   *slog.Logger
}

func NewRelationshipService(users UserStore, log *slog.Logger) *RelationshipService {
	return &RelationshipService{users: users, log: loggerOr(log)}
}

func (s *RelationshipService) Follow(ctx context.Context, followerID, targetID bson.ObjectID) error {
	if followerID == targetID {
		return invalidf("you cannot follow yourself")
	}
	target, err := s.users.FindUserByID(ctx, targetID)
	if err != nil {
		return storeErr("find target", err, ErrUserNotFound)
	}
	if target.HasFollower(followerID) {
		return ErrAlreadyFollowing
	}

	err = s.users.AddFollow(ctx, followerID, targetID)
	switch {
	case err == nil:
		s.log.InfoContext(ctx, "follow", "follower", followerID.Hex(), "target", targetID.Hex())
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return ErrAlreadyFollowing
	}
	return storeErr("add follow", err, ErrUserNotFound)
}

// Unfollow removes both directions of the edge. Removing a missing edge is
// not an error.
func (s *RelationshipService) Unfollow(ctx context.Context, followerID, targetID bson.ObjectID) error {
	if followerID == targetID {
		return invalidf("you cannot unfollow yourself")
	}
	if err := s.users.RemoveFollow(ctx, followerID, targetID); err != nil {
		return storeErr("remove follow", err, nil)
	}
	s.log.InfoContext(ctx, "unfollow", "follower", followerID.Hex(), "target", targetID.Hex())
	return nil
}

func (s *RelationshipService) AccountTier(u *m.User) m.AccountType {
	return u.AccountType()
}

// CheckQuota rejects a Noob account that already has NoobPostLimit posts.
func (s *RelationshipService) CheckQuota(u *m.User) error {
	if u.AccountType() == m.AccountNoob && u.PostCount >= NoobPostLimit {
		return ErrQuotaExceeded
	}
	return nil
}
