package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/stepweaver/mern-blog-server/internal/models"
)

type MessageRepository struct {
	ColMessages *mongo.Collection
}

func (r *MessageRepository) CreateMessage(ctx context.Context, msg *models.EmailMessage) error {
	now := time.Now().UTC()
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	msg.CreatedAt, msg.UpdatedAt = now, now
	_, err := r.ColMessages.InsertOne(ctx, msg)
	return translate(err)
}
