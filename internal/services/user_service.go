package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

type UserService struct {
	users      UserStore
	posts      PostStore
	comments   CommentStore
	profiles   *ProfileService
	moderation *ModerationService
	uploader   Uploader
	log        *slog.Logger

	UpstreamTimeout time.Duration
}

func NewUserService(users UserStore, posts PostStore, comments CommentStore, profiles *ProfileService,
	moderation *ModerationService, uploader Uploader, log *slog.Logger) *UserService {
	return &UserService{
		users:           users,
		posts:           posts,
		comments:        comments,
		profiles:        profiles,
		moderation:      moderation,
		uploader:        uploader,
		log:             loggerOr(log),
		UpstreamTimeout: DefaultUpstreamTimeout,
	}
}

// ProfileDetail is a user's profile as shown to another user.
type ProfileDetail struct {
	User    m.User
	Posts   []m.Post
	Viewers []m.User
}

func (s *UserService) List(ctx context.Context) ([]m.UserWithPosts, error) {
	list, err := s.users.ListUsersWithPosts(ctx)
	if err != nil {
		return nil, storeErr("list users", err, nil)
	}
	return list, nil
}

func (s *UserService) Get(ctx context.Context, id bson.ObjectID) (*m.User, error) {
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, storeErr("find user", err, ErrUserNotFound)
	}
	return u, nil
}

// Profile records viewerID as a viewer and returns the profile with posts
// and viewers resolved.
func (s *UserService) Profile(ctx context.Context, viewerID, id bson.ObjectID) (*ProfileDetail, error) {
	if err := s.profiles.RecordView(ctx, id, viewerID); err != nil {
		return nil, err
	}
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, storeErr("find user", err, ErrUserNotFound)
	}
	posts, err := s.posts.ListPosts(ctx, m.PostQuery{AuthorID: id})
	if err != nil {
		return nil, storeErr("list user posts", err, nil)
	}
	viewers, err := s.users.FindUsersByIDs(ctx, u.ViewedBy)
	if err != nil {
		return nil, storeErr("find viewers", err, nil)
	}
	return &ProfileDetail{User: *u, Posts: posts, Viewers: viewers}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id bson.ObjectID, upd m.ProfileUpdate) (*m.User, error) {
	var err error
	if upd.FirstName, err = trimmed(upd.FirstName); err != nil {
		return nil, err
	}
	if upd.LastName, err = trimmed(upd.LastName); err != nil {
		return nil, err
	}
	if upd.Email != nil {
		e := NormalizeEmail(*upd.Email)
		if !validEmail(e) {
			return nil, invalidf("A valid email is required")
		}
		upd.Email = &e
	}
	if upd.Bio != nil {
		b := strings.TrimSpace(*upd.Bio)
		upd.Bio = &b
	}

	u, err := s.users.UpdateUserProfile(ctx, id, upd)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, storeErr("update profile", err, ErrUserNotFound)
	}
	return u, nil
}

func (s *UserService) UploadProfilePhoto(ctx context.Context, id bson.ObjectID, localPath string) (*m.User, error) {
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, storeErr("find user", err, ErrUserNotFound)
	}
	if err := s.moderation.CheckBlocked(u); err != nil {
		return nil, err
	}
	if localPath == "" {
		return nil, invalidf("No file uploaded")
	}

	uctx, cancel := upstreamContext(ctx, s.UpstreamTimeout)
	url, err := s.uploader.Upload(uctx, localPath)
	cancel()
	if err != nil {
		s.log.ErrorContext(ctx, "profile photo upload failed", "user", id.Hex(), "err", err)
		return nil, upstream("image upload failed", err)
	}

	u, err = s.users.SetProfilePhoto(ctx, id, url)
	if err != nil {
		return nil, storeErr("set profile photo", err, ErrUserNotFound)
	}
	return u, nil
}

// Delete removes a user together with their posts and comments and strips
// their id from every follow list, viewer list and reaction set.
func (s *UserService) Delete(ctx context.Context, actor *m.User, id bson.ObjectID) (*m.User, error) {
	if err := canModify(actor, id); err != nil {
		return nil, err
	}
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, storeErr("find user", err, ErrUserNotFound)
	}

	postIDs, err := s.posts.DeletePostsByAuthor(ctx, id)
	if err != nil {
		return nil, storeErr("delete user posts", err, nil)
	}
	if len(postIDs) > 0 {
		if err := s.comments.DeleteCommentsByPosts(ctx, postIDs); err != nil {
			return nil, storeErr("delete comments on user posts", err, nil)
		}
	}
	if err := s.comments.DeleteCommentsByUser(ctx, id); err != nil {
		return nil, storeErr("delete user comments", err, nil)
	}
	if err := s.users.PullUserReferences(ctx, id); err != nil {
		return nil, storeErr("pull user references", err, nil)
	}
	if err := s.posts.PullReactionsBy(ctx, id); err != nil {
		return nil, storeErr("pull user reactions", err, nil)
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return nil, storeErr("delete user", err, ErrUserNotFound)
	}
	s.log.InfoContext(ctx, "user deleted", "user", id.Hex(), "by", actor.ID.Hex(), "posts", len(postIDs))
	return u, nil
}
