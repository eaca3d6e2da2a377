package services

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
)

func TestCreatePostIncrementsCount(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ann", "ann@blog.test")

	p, err := f.posts.Create(f.ctx, u.ID, CreatePostInput{
		Title:       "  First  ",
		Category:    "travel",
		Description: "Went places",
		ImagePath:   "tmp/a.png",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Title != "First" || p.Author != u.ID || p.Image != "https://img.example/tmp/a.png" {
		t.Fatalf("unexpected post %+v", p)
	}
	if got := f.reload(t, u).PostCount; got != 1 {
		t.Fatalf("postCount = %d", got)
	}

	p2 := f.post(t, u, "second")
	if p2.Image != m.DefaultPostImage {
		t.Fatalf("image = %q, want default", p2.Image)
	}
}

func TestNoobQuota(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ann", "ann@blog.test")
	f.post(t, u, "one")
	f.post(t, u, "two")

	_, err := f.posts.Create(f.ctx, u.ID, CreatePostInput{Title: "three", Category: "c", Description: "d"})
	wantIs(t, err, ErrQuotaExceeded)
	wantKind(t, err, KindQuotaExceeded)
	if got := f.reload(t, u).PostCount; got != 2 {
		t.Fatalf("postCount = %d after rejected create", got)
	}

	// two followers lift the limit
	for _, email := range []string{"f1@blog.test", "f2@blog.test"} {
		fan := f.register(t, "Fan", email)
		if err := f.rel.Follow(f.ctx, fan.ID, u.ID); err != nil {
			t.Fatalf("follow: %v", err)
		}
	}
	f.post(t, u, "three")
}

func TestProfanePostBlocksAuthor(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Rude", "rude@blog.test")

	_, err := f.posts.Create(f.ctx, u.ID, CreatePostInput{Title: "hi", Category: "c", Description: "total bullshit", ImagePath: "x.png"})
	wantIs(t, err, ErrProfane)
	if f.up.calls != 0 {
		t.Fatal("image must not be uploaded for rejected content")
	}
	if !f.reload(t, u).IsBlocked {
		t.Fatal("author not blocked")
	}
	posts, _ := f.store.ListPosts(f.ctx, m.PostQuery{})
	if len(posts) != 0 {
		t.Fatalf("profane post stored")
	}

	_, err = f.posts.Create(f.ctx, u.ID, CreatePostInput{Title: "sorry", Category: "c", Description: "clean"})
	wantIs(t, err, ErrBlocked)
	wantKind(t, err, KindUnauthorized)
}

func TestUploadFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ann", "ann@blog.test")
	f.up.err = errors.New("cloud down")

	_, err := f.posts.Create(f.ctx, u.ID, CreatePostInput{Title: "t", Category: "c", Description: "d", ImagePath: "x.png"})
	wantKind(t, err, KindUpstream)

	posts, _ := f.store.ListPosts(f.ctx, m.PostQuery{})
	if len(posts) != 0 {
		t.Fatalf("post stored after failed upload")
	}
	if got := f.reload(t, u).PostCount; got != 0 {
		t.Fatalf("postCount = %d after failed upload", got)
	}
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ann", "ann@blog.test")
	for _, in := range []CreatePostInput{
		{Category: "c", Description: "d"},
		{Title: "t", Description: "d"},
		{Title: "t", Category: "c", Description: "   "},
	} {
		_, err := f.posts.Create(f.ctx, u.ID, in)
		wantKind(t, err, KindInvalid)
	}
}

func TestGetPostCountsViewsAndPopulates(t *testing.T) {
	f := newFixture(t)
	author := f.register(t, "Ann", "ann@blog.test")
	reader := f.register(t, "Rey", "rey@blog.test")
	p := f.post(t, author, "hello")

	if _, err := f.react.ToggleLike(f.ctx, reader.ID, p.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := f.comments.Create(f.ctx, reader.ID, p.ID, "nice one"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	d, err := f.posts.Get(f.ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	d, err = f.posts.Get(f.ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Post.NumViews != 2 {
		t.Fatalf("numViews = %d", d.Post.NumViews)
	}
	if d.Author == nil || d.Author.ID != author.ID {
		t.Fatalf("author not populated")
	}
	if len(d.Comments) != 1 || len(d.LikedBy) != 1 || d.LikedBy[0].ID != reader.ID {
		t.Fatalf("comments=%d likedBy=%v", len(d.Comments), d.LikedBy)
	}

	_, err = f.posts.Get(f.ctx, bson.NewObjectID())
	wantIs(t, err, ErrPostNotFound)
}

func TestListPostsByCategory(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ann", "ann@blog.test")
	if _, err := f.posts.Create(f.ctx, u.ID, CreatePostInput{Title: "a", Category: "go", Description: "d"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.posts.Create(f.ctx, u.ID, CreatePostInput{Title: "b", Category: "rust", Description: "d"}); err != nil {
		t.Fatal(err)
	}

	all, err := f.posts.List(f.ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("list all: %d %v", len(all), err)
	}
	if all[0].Post.Title != "b" {
		t.Fatalf("newest first expected, got %q", all[0].Post.Title)
	}
	goOnly, err := f.posts.List(f.ctx, "go")
	if err != nil || len(goOnly) != 1 || goOnly[0].Post.Title != "a" {
		t.Fatalf("category filter: %+v %v", goOnly, err)
	}
}

func TestPostPages(t *testing.T) {
	f := newFixture(t)
	admin := f.register(t, "Ann", "ann@blog.test")
	// lift the quota for bulk seeding
	for _, email := range []string{"f1@blog.test", "f2@blog.test"} {
		fan := f.register(t, "Fan", email)
		if err := f.rel.Follow(f.ctx, fan.ID, admin.ID); err != nil {
			t.Fatal(err)
		}
	}
	for _, title := range []string{"p1", "p2", "p3", "p4", "p5"} {
		f.post(t, admin, title)
	}

	var seen []string
	next := ""
	for i := 0; i < 5; i++ {
		page, err := f.posts.Page(f.ctx, next, 2)
		if err != nil {
			t.Fatalf("page %d: %v", i, err)
		}
		for _, d := range page.Items {
			seen = append(seen, d.Post.Title)
		}
		if page.NextCursor == "" {
			break
		}
		next = page.NextCursor
	}
	want := []string{"p5", "p4", "p3", "p2", "p1"}
	if len(seen) != len(want) {
		t.Fatalf("seen %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen %v, want %v", seen, want)
		}
	}

	_, err := f.posts.Page(f.ctx, "garbage", 2)
	wantKind(t, err, KindInvalid)
}

func TestUpdateAndDeletePost(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Own", "own@blog.test")
	other := f.register(t, "Oth", "oth@blog.test")
	p := f.post(t, owner, "draft")
	if _, err := f.comments.Create(f.ctx, other.ID, p.ID, "first!"); err != nil {
		t.Fatal(err)
	}

	title := "final"
	_, err := f.posts.Update(f.ctx, other, p.ID, m.PostUpdate{Title: &title})
	wantIs(t, err, ErrForbidden)

	got, err := f.posts.Update(f.ctx, owner, p.ID, m.PostUpdate{Title: &title})
	if err != nil || got.Title != "final" {
		t.Fatalf("update: %v %+v", err, got)
	}

	blank := "  "
	_, err = f.posts.Update(f.ctx, owner, p.ID, m.PostUpdate{Description: &blank})
	wantKind(t, err, KindInvalid)

	_, err = f.posts.Delete(f.ctx, other, p.ID)
	wantIs(t, err, ErrForbidden)

	if _, err := f.posts.Delete(f.ctx, owner, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.reload(t, owner).PostCount; got != 0 {
		t.Fatalf("postCount = %d after delete", got)
	}
	left, _ := f.store.ListCommentsForPosts(f.ctx, []bson.ObjectID{p.ID})
	if len(left) != 0 {
		t.Fatalf("comments survived post delete: %d", len(left))
	}
}
