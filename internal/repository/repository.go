// Package repository holds the MongoDB implementations of the service stores.
package repository

import "go.mongodb.org/mongo-driver/v2/mongo"

const (
	CollUsers      = "users"
	CollPosts      = "posts"
	CollComments   = "comments"
	CollCategories = "categories"
	CollMessages   = "emailmessages"
)

// Repositories bundles one repository per collection of db.
type Repositories struct {
	Users      *UserRepository
	Posts      *PostRepository
	Comments   *CommentRepository
	Categories *CategoryRepository
	Messages   *MessageRepository
}

func New(client *mongo.Client, db *mongo.Database, transactions bool) *Repositories {
	return &Repositories{
		Users: &UserRepository{
			Client:          client,
			ColUsers:        db.Collection(CollUsers),
			PostsCollection: CollPosts,
			Transactions:    transactions,
		},
		Posts:      &PostRepository{ColPosts: db.Collection(CollPosts)},
		Comments:   &CommentRepository{ColComments: db.Collection(CollComments)},
		Categories: &CategoryRepository{ColCategories: db.Collection(CollCategories)},
		Messages:   &MessageRepository{ColMessages: db.Collection(CollMessages)},
	}
}
