package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/stepweaver/mern-blog-server/internal/cursor"
	m "github.com/stepweaver/mern-blog-server/internal/models"
)

type CommentService struct {
	users      UserStore
	posts      PostStore
	comments   CommentStore
	moderation *ModerationService
	filter     ProfanityChecker
	log        *slog.Logger
}

func NewCommentService(users UserStore, posts PostStore, comments CommentStore, moderation *ModerationService, filter ProfanityChecker, log *slog.Logger) *CommentService {
	return &CommentService{users: users, posts: posts, comments: comments, moderation: moderation, filter: filter, log: loggerOr(log)}
}

type CommentPage struct {
	Items      []m.Comment
	NextCursor string
}

func (s *CommentService) Create(ctx context.Context, userID, postID bson.ObjectID, description string) (*m.Comment, error) {
	description = strings.TrimSpace(description)
	if postID.IsZero() || description == "" {
		return nil, invalidf("Invalid input data.")
	}
	u, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeErr("find user", err, ErrUserNotFound)
	}
	if err := s.moderation.CheckBlocked(u); err != nil {
		return nil, err
	}
	if _, err := s.posts.FindPostByID(ctx, postID); err != nil {
		return nil, storeErr("find post", err, ErrPostNotFound)
	}

	c := &m.Comment{Post: postID, User: u.ID, Description: description}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, storeErr("create comment", err, nil)
	}
	return s.masked(c), nil
}

func (s *CommentService) List(ctx context.Context) ([]m.Comment, error) {
	list, err := s.comments.ListComments(ctx)
	if err != nil {
		return nil, storeErr("list comments", err, nil)
	}
	return s.maskAll(list), nil
}

// ListByPost pages through a post's comments, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID bson.ObjectID, after string, limit int64) (*CommentPage, error) {
	limit = cursor.ClampLimit(limit)
	var (
		at *time.Time
		id bson.ObjectID
	)
	if after != "" {
		t, oid, err := cursor.Decode(after)
		if err != nil {
			return nil, invalidf("invalid cursor")
		}
		at, id = &t, oid
	}
	list, err := s.comments.ListCommentsByPost(ctx, postID, at, id, limit+1)
	if err != nil {
		return nil, storeErr("list comments", err, nil)
	}
	more := int64(len(list)) > limit
	if more {
		list = list[:limit]
	}
	page := &CommentPage{Items: s.maskAll(list)}
	if more {
		last := list[len(list)-1]
		page.NextCursor = cursor.Encode(last.CreatedAt, last.ID)
	}
	return page, nil
}

func (s *CommentService) Get(ctx context.Context, id bson.ObjectID) (*m.Comment, error) {
	c, err := s.comments.FindCommentByID(ctx, id)
	if err != nil {
		return nil, storeErr("find comment", err, ErrCommentNotFound)
	}
	return s.masked(c), nil
}

func (s *CommentService) Update(ctx context.Context, actor *m.User, id bson.ObjectID, description string) (*m.Comment, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, invalidf("Comment description is required")
	}
	c, err := s.comments.FindCommentByID(ctx, id)
	if err != nil {
		return nil, storeErr("find comment", err, ErrCommentNotFound)
	}
	if err := canModify(actor, c.User); err != nil {
		return nil, err
	}
	if err := s.moderation.CheckBlocked(actor); err != nil {
		return nil, err
	}
	c, err = s.comments.UpdateCommentDescription(ctx, id, description)
	if err != nil {
		return nil, storeErr("update comment", err, ErrCommentNotFound)
	}
	return s.masked(c), nil
}

func (s *CommentService) Delete(ctx context.Context, actor *m.User, id bson.ObjectID) (*m.Comment, error) {
	c, err := s.comments.FindCommentByID(ctx, id)
	if err != nil {
		return nil, storeErr("find comment", err, ErrCommentNotFound)
	}
	if err := canModify(actor, c.User); err != nil {
		return nil, err
	}
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return nil, storeErr("delete comment", err, ErrCommentNotFound)
	}
	s.log.InfoContext(ctx, "comment deleted", "comment", id.Hex(), "by", actor.ID.Hex())
	return s.masked(c), nil
}

func (s *CommentService) masked(c *m.Comment) *m.Comment {
	c.Description = mask(s.filter, c.Description)
	return c
}

func (s *CommentService) maskAll(list []m.Comment) []m.Comment {
	for i := range list {
		list[i].Description = mask(s.filter, list[i].Description)
	}
	return list
}
