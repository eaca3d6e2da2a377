package services

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

const maxReactionAttempts = 3

// ReactionService toggles a user's like/unlike on a post.
//
//	like:   None -> Liked, Liked -> None, Disliked -> Liked
//	unlike: None -> Disliked, Disliked -> None, Liked -> Disliked
//
// Each call persists one transition, conditioned on the state it read.
type ReactionService struct {
	posts PostStore
	log   *slog.Logger
}

func NewReactionService(posts PostStore, log *slog.Logger) *ReactionService {
	return &ReactionService{posts: posts, log: loggerOr(log)}
}

func (s *ReactionService) ToggleLike(ctx context.Context, userID, postID bson.ObjectID) (*m.Post, error) {
	return s.toggle(ctx, userID, postID, m.ReactionLiked)
}

func (s *ReactionService) ToggleUnlike(ctx context.Context, userID, postID bson.ObjectID) (*m.Post, error) {
	return s.toggle(ctx, userID, postID, m.ReactionDisliked)
}

// Next returns the state reached by pressing want while in cur.
func Next(cur, want m.Reaction) m.Reaction {
	if cur == want {
		return m.ReactionNone
	}
	return want
}

func (s *ReactionService) toggle(ctx context.Context, userID, postID bson.ObjectID, want m.Reaction) (*m.Post, error) {
	for attempt := 0; attempt < maxReactionAttempts; attempt++ {
		p, err := s.posts.FindPostByID(ctx, postID)
		if err != nil {
			return nil, storeErr("find post", err, ErrPostNotFound)
		}
		from := p.ReactionOf(userID)
		to := Next(from, want)

		out, err := s.posts.SwapReaction(ctx, postID, userID, from, to)
		if errors.Is(err, repository.ErrStateChanged) {
			s.log.DebugContext(ctx, "reaction raced, retrying", "post", postID.Hex(), "user", userID.Hex(), "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, storeErr("swap reaction", err, ErrPostNotFound)
		}
		return out, nil
	}
	return nil, ErrReactionConflict
}
