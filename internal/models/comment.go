package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Comment struct {
	ID          bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	Post        bson.ObjectID `json:"post" bson:"post"`
	User        bson.ObjectID `json:"user" bson:"user"`
	Description string        `json:"description" bson:"description"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type Category struct {
	ID        bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title     string        `json:"title" bson:"title"`
	User      bson.ObjectID `json:"user" bson:"user"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// EmailMessage records a message a user sent to an address through the platform.
type EmailMessage struct {
	ID        bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	SentBy    bson.ObjectID `json:"sentBy" bson:"sentBy"`
	From      string        `json:"from" bson:"from"`
	To        string        `json:"to" bson:"to"`
	Subject   string        `json:"subject" bson:"subject"`
	Message   string        `json:"message" bson:"message"`
	IsFlagged bool          `json:"isFlagged" bson:"isFlagged"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}
