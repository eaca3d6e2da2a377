package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stepweaver/mern-blog-server/internal/mailer"
	m "github.com/stepweaver/mern-blog-server/internal/models"
)

// Store errors are the repository sentinels: repository.ErrNotFound,
// repository.ErrDuplicate and repository.ErrStateChanged.

type UserStore interface {
	CreateUser(ctx context.Context, u *m.User) error
	FindUserByID(ctx context.Context, id bson.ObjectID) (*m.User, error)
	FindUserByEmail(ctx context.Context, email string) (*m.User, error)
	FindUsersByIDs(ctx context.Context, ids []bson.ObjectID) ([]m.User, error)
	ListUsersWithPosts(ctx context.Context) ([]m.UserWithPosts, error)
	UpdateUserProfile(ctx context.Context, id bson.ObjectID, upd m.ProfileUpdate) (*m.User, error)
	UpdatePassword(ctx context.Context, id bson.ObjectID, hash string, changedAt time.Time) error
	SetBlocked(ctx context.Context, id bson.ObjectID, blocked bool) (*m.User, error)
	SetAccountVerified(ctx context.Context, id bson.ObjectID) (*m.User, error)
	SetProfilePhoto(ctx context.Context, id bson.ObjectID, url string) (*m.User, error)
	IncPostCount(ctx context.Context, id bson.ObjectID, delta int) error

	SetToken(ctx context.Context, id bson.ObjectID, p m.TokenPurpose, hash string, expires time.Time) error
	ClearToken(ctx context.Context, id bson.ObjectID, p m.TokenPurpose) error
	// ConsumeToken finds the user holding hash with an expiry after now and
	// clears the token in the same write.
	ConsumeToken(ctx context.Context, p m.TokenPurpose, hash string, now time.Time) (*m.User, error)

	// AddViewer reports whether viewerID was added.
	AddViewer(ctx context.Context, ownerID, viewerID bson.ObjectID) (bool, error)
	// AddFollow returns repository.ErrDuplicate when the edge already exists.
	AddFollow(ctx context.Context, followerID, targetID bson.ObjectID) error
	RemoveFollow(ctx context.Context, followerID, targetID bson.ObjectID) error
	PullUserReferences(ctx context.Context, id bson.ObjectID) error
	DeleteUser(ctx context.Context, id bson.ObjectID) error
}

type PostStore interface {
	CreatePost(ctx context.Context, p *m.Post) error
	FindPostByID(ctx context.Context, id bson.ObjectID) (*m.Post, error)
	ListPosts(ctx context.Context, q m.PostQuery) ([]m.Post, error)
	UpdatePostContent(ctx context.Context, id bson.ObjectID, upd m.PostUpdate) (*m.Post, error)
	IncPostViews(ctx context.Context, id bson.ObjectID) (*m.Post, error)
	// SwapReaction moves userID from one reaction set to another only if the
	// post still holds the from state, else repository.ErrStateChanged.
	SwapReaction(ctx context.Context, postID, userID bson.ObjectID, from, to m.Reaction) (*m.Post, error)
	DeletePost(ctx context.Context, id bson.ObjectID) error
	DeletePostsByAuthor(ctx context.Context, authorID bson.ObjectID) ([]bson.ObjectID, error)
	PullReactionsBy(ctx context.Context, userID bson.ObjectID) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, c *m.Comment) error
	FindCommentByID(ctx context.Context, id bson.ObjectID) (*m.Comment, error)
	ListComments(ctx context.Context) ([]m.Comment, error)
	ListCommentsByPost(ctx context.Context, postID bson.ObjectID, before *time.Time, beforeID bson.ObjectID, limit int64) ([]m.Comment, error)
	ListCommentsForPosts(ctx context.Context, postIDs []bson.ObjectID) ([]m.Comment, error)
	UpdateCommentDescription(ctx context.Context, id bson.ObjectID, desc string) (*m.Comment, error)
	DeleteComment(ctx context.Context, id bson.ObjectID) error
	DeleteCommentsByPosts(ctx context.Context, postIDs []bson.ObjectID) error
	DeleteCommentsByUser(ctx context.Context, userID bson.ObjectID) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *m.Category) error
	FindCategoryByID(ctx context.Context, id bson.ObjectID) (*m.Category, error)
	ListCategories(ctx context.Context) ([]m.Category, error)
	UpdateCategoryTitle(ctx context.Context, id bson.ObjectID, title string) (*m.Category, error)
	DeleteCategory(ctx context.Context, id bson.ObjectID) error
}

type MessageStore interface {
	CreateMessage(ctx context.Context, msg *m.EmailMessage) error
}

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Uploader publishes a local file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

type ProfanityChecker interface {
	IsProfane(text string) bool
	Mask(text string) string
}

// Stores groups one implementation per store interface.
type Stores struct {
	Users      UserStore
	Posts      PostStore
	Comments   CommentStore
	Categories CategoryStore
	Messages   MessageStore
}
