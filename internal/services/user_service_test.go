package services

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
)

func TestDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	gone := f.register(t, "Gone", "gone@blog.test")
	stay := f.register(t, "Stay", "stay@blog.test")

	goneText := f.post(t, gone, "bye")
	stayText := f.post(t, stay, "hi")

	steps := []error{
		f.rel.Follow(f.ctx, gone.ID, stay.ID),
		f.rel.Follow(f.ctx, stay.ID, gone.ID),
		f.profiles.RecordView(f.ctx, stay.ID, gone.ID),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("setup %d: %v", i, err)
		}
	}
	if _, err := f.react.ToggleLike(f.ctx, gone.ID, stayText.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.comments.Create(f.ctx, gone.ID, stayText.ID, "from gone"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.comments.Create(f.ctx, stay.ID, goneText.ID, "on gone's post"); err != nil {
		t.Fatal(err)
	}
	keep, err := f.comments.Create(f.ctx, stay.ID, stayText.ID, "mine")
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.users.Delete(f.ctx, stay, gone.ID)
	wantIs(t, err, ErrForbidden)

	if _, err := f.users.Delete(f.ctx, gone, gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.store.FindUserByID(f.ctx, gone.ID); err == nil {
		t.Fatal("user still present")
	}
	s := f.reload(t, stay)
	if len(s.Followers) != 0 || len(s.Following) != 0 || len(s.ViewedBy) != 0 {
		t.Fatalf("dangling references: followers=%v following=%v viewedBy=%v", s.Followers, s.Following, s.ViewedBy)
	}
	if _, err := f.store.FindPostByID(f.ctx, goneText.ID); err == nil {
		t.Fatal("deleted user's post still present")
	}
	p, err := f.store.FindPostByID(f.ctx, stayText.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Likes) != 0 {
		t.Fatalf("like from deleted user kept: %v", p.Likes)
	}
	all, _ := f.store.ListComments(f.ctx)
	if len(all) != 1 || all[0].ID != keep.ID {
		t.Fatalf("comments after cascade = %+v", all)
	}
}

func TestProfileRecordsViewAndPopulates(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Own", "own@blog.test")
	viewer := f.register(t, "Vic", "vic@blog.test")
	f.post(t, owner, "mine")

	d, err := f.users.Profile(f.ctx, viewer.ID, owner.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(d.Posts) != 1 || len(d.Viewers) != 1 || d.Viewers[0].ID != viewer.ID {
		t.Fatalf("posts=%d viewers=%v", len(d.Posts), d.Viewers)
	}

	_, err = f.users.Profile(f.ctx, viewer.ID, bson.NewObjectID())
	wantIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ann", "ann@blog.test")
	f.register(t, "Bob", "bob@blog.test")

	bio, first := "  writer  ", "Anna"
	got, err := f.users.UpdateProfile(f.ctx, u.ID, m.ProfileUpdate{FirstName: &first, Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FirstName != "Anna" || got.Bio != "writer" || got.LastName != "Tester" {
		t.Fatalf("unexpected profile %+v", got)
	}

	taken := "BOB@blog.test"
	_, err = f.users.UpdateProfile(f.ctx, u.ID, m.ProfileUpdate{Email: &taken})
	wantIs(t, err, ErrEmailTaken)

	bad := "nope"
	_, err = f.users.UpdateProfile(f.ctx, u.ID, m.ProfileUpdate{Email: &bad})
	wantKind(t, err, KindInvalid)
}

func TestUploadProfilePhoto(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ann", "ann@blog.test")

	got, err := f.users.UploadProfilePhoto(f.ctx, u.ID, "me.jpg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got.ProfilePhoto != "https://img.example/me.jpg" {
		t.Fatalf("photo = %q", got.ProfilePhoto)
	}

	f.up.err = errors.New("down")
	_, err = f.users.UploadProfilePhoto(f.ctx, u.ID, "me2.jpg")
	wantKind(t, err, KindUpstream)
	if f.reload(t, u).ProfilePhoto != "https://img.example/me.jpg" {
		t.Fatal("photo changed after failed upload")
	}

	if _, err := f.store.SetBlocked(f.ctx, u.ID, true); err != nil {
		t.Fatal(err)
	}
	_, err = f.users.UploadProfilePhoto(f.ctx, u.ID, "me3.jpg")
	wantIs(t, err, ErrBlocked)
}

func TestListUsersWithPosts(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "Ann", "ann@blog.test")
	f.register(t, "Bob", "bob@blog.test")
	f.post(t, a, "x")

	list, err := f.users.List(f.ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %d %v", len(list), err)
	}
	for _, row := range list {
		want := 0
		if row.ID == a.ID {
			want = 1
		}
		if len(row.Posts) != want {
			t.Fatalf("user %s has %d posts, want %d", row.FirstName, len(row.Posts), want)
		}
	}
}
