package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
)

func TestFollowUnfollowMirror(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ann", "ann@blog.test")
	b := f.register(t, "Bob", "bob@blog.test")

	if err := f.rel.Follow(f.ctx, a.ID, b.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	a, b = f.reload(t, a), f.reload(t, b)
	if !b.HasFollower(a.ID) || !a.IsFollowingUser(b.ID) {
		t.Fatalf("edge not mirrored: b.followers=%v a.following=%v", b.Followers, a.Following)
	}

	err := f.rel.Follow(f.ctx, a.ID, b.ID)
	wantIs(t, err, ErrAlreadyFollowing)
	wantKind(t, err, KindConflict)

	if err := f.rel.Unfollow(f.ctx, a.ID, b.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	a, b = f.reload(t, a), f.reload(t, b)
	if b.HasFollower(a.ID) || a.IsFollowingUser(b.ID) {
		t.Fatalf("edge still present after unfollow")
	}

	// second unfollow is a no-op
	if err := f.rel.Unfollow(f.ctx, a.ID, b.ID); err != nil {
		t.Fatalf("repeat unfollow: %v", err)
	}
	a2, b2 := f.reload(t, a), f.reload(t, b)
	if len(a2.Following) != len(a.Following) || len(b2.Followers) != len(b.Followers) {
		t.Fatalf("repeat unfollow changed state")
	}
}

func TestFollowRejectsSelfAndMissing(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ann", "ann@blog.test")

	wantKind(t, f.rel.Follow(f.ctx, a.ID, a.ID), KindInvalid)
	wantIs(t, f.rel.Follow(f.ctx, a.ID, bson.NewObjectID()), ErrUserNotFound)
}

func TestAccountTierBoundary(t *testing.T) {
	f := newFixture(t)
	star := f.register(t, "Star", "star@blog.test")
	fan1 := f.register(t, "Fan", "fan1@blog.test")
	fan2 := f.register(t, "Fan", "fan2@blog.test")

	if got := f.rel.AccountTier(f.reload(t, star)); got != m.AccountNoob {
		t.Fatalf("0 followers: tier %s", got)
	}
	if err := f.rel.Follow(f.ctx, fan1.ID, star.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if got := f.rel.AccountTier(f.reload(t, star)); got != m.AccountNoob {
		t.Fatalf("1 follower: tier %s", got)
	}
	if err := f.rel.Follow(f.ctx, fan2.ID, star.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if got := f.rel.AccountTier(f.reload(t, star)); got != m.AccountPro {
		t.Fatalf("2 followers: tier %s", got)
	}
}

func TestCheckQuota(t *testing.T) {
	f := newFixture(t)
	u := &m.User{PostCount: 1}
	if err := f.rel.CheckQuota(u); err != nil {
		t.Fatalf("noob with 1 post: %v", err)
	}
	u.PostCount = 2
	wantIs(t, f.rel.CheckQuota(u), ErrQuotaExceeded)

	u.Followers = []bson.ObjectID{bson.NewObjectID(), bson.NewObjectID()}
	u.PostCount = 50
	if err := f.rel.CheckQuota(u); err != nil {
		t.Fatalf("pro account must not be limited: %v", err)
	}
}
