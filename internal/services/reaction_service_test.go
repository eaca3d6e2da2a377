package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

func TestNextReaction(t *testing.T) {
	cases := []struct {
		cur, want, next m.Reaction
	}{
		{m.ReactionNone, m.ReactionLiked, m.ReactionLiked},
		{m.ReactionLiked, m.ReactionLiked, m.ReactionNone},
		{m.ReactionDisliked, m.ReactionLiked, m.ReactionLiked},
		{m.ReactionNone, m.ReactionDisliked, m.ReactionDisliked},
		{m.ReactionDisliked, m.ReactionDisliked, m.ReactionNone},
		{m.ReactionLiked, m.ReactionDisliked, m.ReactionDisliked},
	}
	for _, tc := range cases {
		if got := Next(tc.cur, tc.want); got != tc.next {
			t.Fatalf("Next(%s, %s) = %s, want %s", tc.cur, tc.want, got, tc.next)
		}
	}
}

func checkFlags(t *testing.T, p *m.Post, liked, unliked bool) {
	t.Helper()
	if p.IsLiked != liked || p.IsUnLiked != unliked {
		t.Fatalf("flags = (%v,%v), want (%v,%v)", p.IsLiked, p.IsUnLiked, liked, unliked)
	}
}

func checkDisjoint(t *testing.T, p *m.Post) {
	t.Helper()
	for _, id := range p.Likes {
		for _, other := range p.UnLikes {
			if id == other {
				t.Fatalf("user %s in both likes and unLikes", id.Hex())
			}
		}
	}
}

func TestLikeToggleScenario(t *testing.T) {
	f := newFixture(t)
	author := f.register(t, "Ann", "ann@blog.test")
	reader := f.register(t, "Rey", "rey@blog.test")
	p := f.post(t, author, "hello")

	got, err := f.react.ToggleLike(f.ctx, reader.ID, p.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if len(got.Likes) != 1 || got.Likes[0] != reader.ID || len(got.UnLikes) != 0 {
		t.Fatalf("after like: likes=%v unLikes=%v", got.Likes, got.UnLikes)
	}
	checkFlags(t, got, true, false)

	got, err = f.react.ToggleLike(f.ctx, reader.ID, p.ID)
	if err != nil {
		t.Fatalf("unlike via like: %v", err)
	}
	if len(got.Likes) != 0 || len(got.UnLikes) != 0 {
		t.Fatalf("after second like: likes=%v unLikes=%v", got.Likes, got.UnLikes)
	}
	checkFlags(t, got, false, false)
}

func TestDislikedToLikedIsOneTransition(t *testing.T) {
	f := newFixture(t)
	author := f.register(t, "Ann", "ann@blog.test")
	reader := f.register(t, "Rey", "rey@blog.test")
	p := f.post(t, author, "hello")

	got, err := f.react.ToggleUnlike(f.ctx, reader.ID, p.ID)
	if err != nil {
		t.Fatalf("dislike: %v", err)
	}
	checkFlags(t, got, false, true)
	if got.ReactionOf(reader.ID) != m.ReactionDisliked {
		t.Fatalf("state = %s", got.ReactionOf(reader.ID))
	}

	got, err = f.react.ToggleLike(f.ctx, reader.ID, p.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if got.ReactionOf(reader.ID) != m.ReactionLiked {
		t.Fatalf("state = %s, want liked", got.ReactionOf(reader.ID))
	}
	checkFlags(t, got, true, false)
	checkDisjoint(t, got)

	got, err = f.react.ToggleUnlike(f.ctx, reader.ID, p.ID)
	if err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if got.ReactionOf(reader.ID) != m.ReactionDisliked {
		t.Fatalf("state = %s, want disliked", got.ReactionOf(reader.ID))
	}
	checkDisjoint(t, got)
}

func TestReactionsStayDisjoint(t *testing.T) {
	f := newFixture(t)
	author := f.register(t, "Ann", "ann@blog.test")
	a := f.register(t, "Al", "al@blog.test")
	b := f.register(t, "Bo", "bo@blog.test")
	p := f.post(t, author, "hello")

	steps := []struct {
		user bson.ObjectID
		like bool
	}{
		{a.ID, true}, {b.ID, false}, {a.ID, false}, {b.ID, true},
		{a.ID, true}, {a.ID, true}, {b.ID, false}, {b.ID, false},
	}
	for i, st := range steps {
		var (
			got *m.Post
			err error
		)
		if st.like {
			got, err = f.react.ToggleLike(f.ctx, st.user, p.ID)
		} else {
			got, err = f.react.ToggleUnlike(f.ctx, st.user, p.ID)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		checkDisjoint(t, got)
	}
}

func TestReactionMissingPost(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ann", "ann@blog.test")
	_, err := f.react.ToggleLike(f.ctx, u.ID, bson.NewObjectID())
	wantIs(t, err, ErrPostNotFound)
}

type racingPosts struct {
	PostStore
	post  *m.Post
	swaps int
}

func (r *racingPosts) FindPostByID(context.Context, bson.ObjectID) (*m.Post, error) {
	cp := *r.post
	return &cp, nil
}

func (r *racingPosts) SwapReaction(context.Context, bson.ObjectID, bson.ObjectID, m.Reaction, m.Reaction) (*m.Post, error) {
	r.swaps++
	return nil, repository.ErrStateChanged
}

func TestReactionGivesUpAfterRetries(t *testing.T) {
	posts := &racingPosts{post: &m.Post{ID: bson.NewObjectID()}}
	svc := NewReactionService(posts, nil)

	_, err := svc.ToggleLike(context.Background(), bson.NewObjectID(), posts.post.ID)
	wantIs(t, err, ErrReactionConflict)
	if posts.swaps != maxReactionAttempts {
		t.Fatalf("swaps = %d, want %d", posts.swaps, maxReactionAttempts)
	}
}
