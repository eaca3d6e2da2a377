package services

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProfileService tracks who has viewed a profile.
type ProfileService struct {
	users UserStore
}

func NewProfileService(users UserStore) *ProfileService {
	return &ProfileService{users: users}
}

// RecordView adds viewerID to the owner's viewedBy once. Self-views are ignored.
func (s *ProfileService) RecordView(ctx context.Context, ownerID, viewerID bson.ObjectID) error {
	if ownerID == viewerID || viewerID.IsZero() {
		return nil
	}
	owner, err := s.users.FindUserByID(ctx, ownerID)
	if err != nil {
		return storeErr("find profile owner", err, ErrUserNotFound)
	}
	if owner.ViewedByUser(viewerID) {
		return nil
	}
	_, err = s.users.AddViewer(ctx, ownerID, viewerID)
	return storeErr("add viewer", err, ErrUserNotFound)
}
