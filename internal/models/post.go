package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultPostImage = "https://cdn.pixabay.com/photo/2020/10/25/09/23/seagull-5683637_960_720.jpg"

type Post struct {
	ID          bson.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Title       string          `json:"title" bson:"title"`
	Category    string          `json:"category" bson:"category"`
	Description string          `json:"description" bson:"description"`
	Image       string          `json:"image" bson:"image"`
	NumViews    int             `json:"numViews" bson:"numViews"`
	Likes       []bson.ObjectID `json:"likes" bson:"likes"`
	UnLikes     []bson.ObjectID `json:"unLikes" bson:"unLikes"`
	IsLiked     bool            `json:"isLiked" bson:"isLiked"`
	IsUnLiked   bool            `json:"isUnLiked" bson:"isUnLiked"`
	Author      bson.ObjectID   `json:"author" bson:"author"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Reaction is the state of one user towards one post.
type Reaction int

const (
	ReactionNone Reaction = iota
	ReactionLiked
	ReactionDisliked
)

func (r Reaction) String() string {
	switch r {
	case ReactionLiked:
		return "liked"
	case ReactionDisliked:
		return "disliked"
	default:
		return "none"
	}
}

func (p *Post) ReactionOf(userID bson.ObjectID) Reaction {
	switch {
	case containsID(p.Likes, userID):
		return ReactionLiked
	case containsID(p.UnLikes, userID):
		return ReactionDisliked
	default:
		return ReactionNone
	}
}

// ApplyReaction moves userID into the set for r and sets the last-action flags.
func (p *Post) ApplyReaction(userID bson.ObjectID, r Reaction) {
	p.Likes = RemoveID(p.Likes, userID)
	p.UnLikes = RemoveID(p.UnLikes, userID)
	switch r {
	case ReactionLiked:
		p.Likes = append(p.Likes, userID)
	case ReactionDisliked:
		p.UnLikes = append(p.UnLikes, userID)
	}
	p.IsLiked, p.IsUnLiked = r.Flags()
}

// Flags returns the isLiked/isUnLiked pair written together with a transition to r.
func (r Reaction) Flags() (isLiked, isUnLiked bool) {
	return r == ReactionLiked, r == ReactionDisliked
}

type PostQuery struct {
	Category string
	AuthorID bson.ObjectID
	// keyset pagination, newest first
	Before   *time.Time
	BeforeID bson.ObjectID
	Limit    int64
}

// PostUpdate carries the editable post fields; nil means unchanged.
type PostUpdate struct {
	Title       *string
	Category    *string
	Description *string
}
