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

type PostService struct {
	users         UserStore
	posts         PostStore
	comments      CommentStore
	moderation    *ModerationService
	relationships *RelationshipService
	uploader      Uploader
	filter        ProfanityChecker
	log           *slog.Logger

	UpstreamTimeout time.Duration
}

func NewPostService(users UserStore, posts PostStore, comments CommentStore, moderation *ModerationService,
	relationships *RelationshipService, uploader Uploader, filter ProfanityChecker, log *slog.Logger) *PostService {
	return &PostService{
		users:           users,
		posts:           posts,
		comments:        comments,
		moderation:      moderation,
		relationships:   relationships,
		uploader:        uploader,
		filter:          filter,
		log:             loggerOr(log),
		UpstreamTimeout: DefaultUpstreamTimeout,
	}
}

type CreatePostInput struct {
	Title       string
	Category    string
	Description string
	// ImagePath is a local file to publish; empty keeps the default image.
	ImagePath string
}

// PostDetail is a post with its referenced documents resolved.
type PostDetail struct {
	Post       m.Post
	Author     *m.User
	Comments   []m.Comment
	LikedBy    []m.User
	DislikedBy []m.User
}

type PostPage struct {
	Items      []PostDetail
	NextCursor string
}

// Create runs the publishing gates in order: block check, profanity (which
// blocks the author on a hit), Noob quota, image upload. Nothing is stored
// unless every gate passes.
func (s *PostService) Create(ctx context.Context, authorID bson.ObjectID, in CreatePostInput) (*m.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Title == "":
		return nil, invalidf("Post title is required")
	case in.Category == "":
		return nil, invalidf("Post category is required")
	case in.Description == "":
		return nil, invalidf("Post description is required")
	}

	author, err := s.users.FindUserByID(ctx, authorID)
	if err != nil {
		return nil, storeErr("find author", err, ErrUserNotFound)
	}
	if err := s.moderation.CheckBlocked(author); err != nil {
		return nil, err
	}
	if err := s.moderation.EnforceContent(ctx, author, in.Title, in.Description); err != nil {
		return nil, err
	}
	if err := s.relationships.CheckQuota(author); err != nil {
		return nil, err
	}

	image := m.DefaultPostImage
	if in.ImagePath != "" {
		uctx, cancel := upstreamContext(ctx, s.UpstreamTimeout)
		url, err := s.uploader.Upload(uctx, in.ImagePath)
		cancel()
		if err != nil {
			s.log.ErrorContext(ctx, "post image upload failed", "author", authorID.Hex(), "err", err)
			return nil, upstream("image upload failed", err)
		}
		image = url
	}

	p := &m.Post{
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		Image:       image,
		Likes:       []bson.ObjectID{},
		UnLikes:     []bson.ObjectID{},
		Author:      author.ID,
	}
	if err := s.posts.CreatePost(ctx, p); err != nil {
		return nil, storeErr("create post", err, nil)
	}
	if err := s.users.IncPostCount(ctx, author.ID, 1); err != nil {
		if derr := s.posts.DeletePost(ctx, p.ID); derr != nil {
			s.log.ErrorContext(ctx, "orphan post after failed counter update", "post", p.ID.Hex(), "err", derr)
		}
		return nil, storeErr("increment post count", err, ErrUserNotFound)
	}
	s.log.InfoContext(ctx, "post created", "post", p.ID.Hex(), "author", author.ID.Hex())
	return p, nil
}

// List returns posts newest first, optionally filtered by category.
func (s *PostService) List(ctx context.Context, category string) ([]PostDetail, error) {
	posts, err := s.posts.ListPosts(ctx, m.PostQuery{Category: strings.TrimSpace(category)})
	if err != nil {
		return nil, storeErr("list posts", err, nil)
	}
	return s.populate(ctx, posts)
}

func (s *PostService) Page(ctx context.Context, after string, limit int64) (*PostPage, error) {
	limit = cursor.ClampLimit(limit)
	// one extra row tells whether another page exists
	q := m.PostQuery{Limit: limit + 1}
	if after != "" {
		at, id, err := cursor.Decode(after)
		if err != nil {
			return nil, invalidf("invalid cursor")
		}
		q.Before, q.BeforeID = &at, id
	}
	posts, err := s.posts.ListPosts(ctx, q)
	if err != nil {
		return nil, storeErr("list posts", err, nil)
	}
	more := int64(len(posts)) > limit
	if more {
		posts = posts[:limit]
	}
	items, err := s.populate(ctx, posts)
	if err != nil {
		return nil, err
	}
	page := &PostPage{Items: items}
	if more {
		last := posts[len(posts)-1]
		page.NextCursor = cursor.Encode(last.CreatedAt, last.ID)
	}
	return page, nil
}

// Get counts a view and returns the fully populated post.
func (s *PostService) Get(ctx context.Context, id bson.ObjectID) (*PostDetail, error) {
	p, err := s.posts.IncPostViews(ctx, id)
	if err != nil {
		return nil, storeErr("increment views", err, ErrPostNotFound)
	}
	details, err := s.populate(ctx, []m.Post{*p})
	if err != nil {
		return nil, err
	}
	d := details[0]
	if d.LikedBy, err = s.users.FindUsersByIDs(ctx, p.Likes); err != nil {
		return nil, storeErr("find likers", err, nil)
	}
	if d.DislikedBy, err = s.users.FindUsersByIDs(ctx, p.UnLikes); err != nil {
		return nil, storeErr("find dislikers", err, nil)
	}
	return &d, nil
}

func (s *PostService) Update(ctx context.Context, actor *m.User, id bson.ObjectID, upd m.PostUpdate) (*m.Post, error) {
	p, err := s.posts.FindPostByID(ctx, id)
	if err != nil {
		return nil, storeErr("find post", err, ErrPostNotFound)
	}
	if err := canModify(actor, p.Author); err != nil {
		return nil, err
	}
	if err := s.moderation.CheckBlocked(actor); err != nil {
		return nil, err
	}

	if upd.Title, err = trimmed(upd.Title); err != nil {
		return nil, err
	}
	if upd.Category, err = trimmed(upd.Category); err != nil {
		return nil, err
	}
	if upd.Description, err = trimmed(upd.Description); err != nil {
		return nil, err
	}

	var texts []string
	if upd.Title != nil {
		texts = append(texts, *upd.Title)
	}
	if upd.Description != nil {
		texts = append(texts, *upd.Description)
	}
	if len(texts) > 0 {
		if err := s.moderation.EnforceContent(ctx, actor, texts...); err != nil {
			return nil, err
		}
	}

	out, err := s.posts.UpdatePostContent(ctx, id, upd)
	if err != nil {
		return nil, storeErr("update post", err, ErrPostNotFound)
	}
	return out, nil
}

// Delete removes the post and its comments and decrements the author's count.
func (s *PostService) Delete(ctx context.Context, actor *m.User, id bson.ObjectID) (*m.Post, error) {
	p, err := s.posts.FindPostByID(ctx, id)
	if err != nil {
		return nil, storeErr("find post", err, ErrPostNotFound)
	}
	if err := canModify(actor, p.Author); err != nil {
		return nil, err
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return nil, storeErr("delete post", err, ErrPostNotFound)
	}
	if err := s.comments.DeleteCommentsByPosts(ctx, []bson.ObjectID{id}); err != nil {
		s.log.ErrorContext(ctx, "delete post comments failed", "post", id.Hex(), "err", err)
	}
	if err := s.users.IncPostCount(ctx, p.Author, -1); err != nil {
		s.log.ErrorContext(ctx, "decrement post count failed", "author", p.Author.Hex(), "err", err)
	}
	return p, nil
}

func (s *PostService) populate(ctx context.Context, posts []m.Post) ([]PostDetail, error) {
	out := make([]PostDetail, len(posts))
	if len(posts) == 0 {
		return out, nil
	}
	authorIDs := make([]bson.ObjectID, 0, len(posts))
	postIDs := make([]bson.ObjectID, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.Author)
		postIDs = append(postIDs, p.ID)
	}
	authors, err := s.users.FindUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, storeErr("find authors", err, nil)
	}
	byID := make(map[bson.ObjectID]*m.User, len(authors))
	for i := range authors {
		byID[authors[i].ID] = &authors[i]
	}
	comments, err := s.comments.ListCommentsForPosts(ctx, postIDs)
	if err != nil {
		return nil, storeErr("find comments", err, nil)
	}
	byPost := map[bson.ObjectID][]m.Comment{}
	for _, c := range comments {
		c.Description = mask(s.filter, c.Description)
		byPost[c.Post] = append(byPost[c.Post], c)
	}
	for i, p := range posts {
		out[i] = PostDetail{Post: p, Author: byID[p.Author], Comments: byPost[p.ID]}
		if out[i].Comments == nil {
			out[i].Comments = []m.Comment{}
		}
	}
	return out, nil
}

// canModify allows the owner or an admin.
func canModify(actor *m.User, owner bson.ObjectID) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.ID != owner && !actor.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// trimmed trims an optional field, rejecting one set to blank.
func trimmed(v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil, invalidf("fields cannot be empty")
	}
	return &t, nil
}

func mask(f ProfanityChecker, s string) string {
	if f == nil {
		return s
	}
	return f.Mask(s)
}
