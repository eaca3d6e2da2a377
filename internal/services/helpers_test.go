package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stepweaver/mern-blog-server/internal/mailer"
	m "github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository/memstore"
	"github.com/stepweaver/mern-blog-server/internal/utils"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) last(t *testing.T) mailer.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatalf("no mail sent")
	}
	return f.sent[len(f.sent)-1]
}

type fakeUploader struct {
	calls int
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, path string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://img.example/" + path, nil
}

type fixture struct {
	ctx   context.Context
	store *memstore.Store
	mail  *fakeMailer
	up    *fakeUploader
	clock time.Time

	tokens   *TokenService
	rel      *RelationshipService
	mod      *ModerationService
	react    *ReactionService
	profiles *ProfileService
	identity *IdentityService
	posts    *PostService
	comments *CommentService
	cats     *CategoryService
	email    *EmailService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: memstore.New(),
		mail:  &fakeMailer{},
		up:    &fakeUploader{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	// every read of the clock advances it so listings have a stable order
	f.store.Now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}

	filter := utils.NewProfanityFilter()
	st := f.store
	f.tokens = NewTokenService(st, 30*time.Minute)
	f.rel = NewRelationshipService(st, nil)
	f.mod = NewModerationService(st, filter, nil)
	f.react = NewReactionService(st, nil)
	f.profiles = NewProfileService(st)
	f.identity = NewIdentityService(st, f.tokens, f.mail, IdentityConfig{
		JWTSecret:   "test-secret",
		FrontendURL: "http://localhost:3000/",
		MailFrom:    "noreply@blog.test",
	}, nil)
	f.posts = NewPostService(st, st, st, f.mod, f.rel, f.up, filter, nil)
	f.comments = NewCommentService(st, st, st, f.mod, filter, nil)
	f.cats = NewCategoryService(st, st)
	f.email = NewEmailService(st, st, f.mod, f.mail, "noreply@blog.test", nil)
	f.users = NewUserService(st, st, st, f.profiles, f.mod, f.up, nil)
	return f
}

func (f *fixture) register(t *testing.T, first, email string) *m.User {
	t.Helper()
	u, err := f.identity.Register(f.ctx, RegisterInput{
		FirstName: first,
		LastName:  "Tester",
		Email:     email,
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func (f *fixture) reload(t *testing.T, u *m.User) *m.User {
	t.Helper()
	got, err := f.store.FindUserByID(f.ctx, u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return got
}

func (f *fixture) post(t *testing.T, author *m.User, title string) *m.Post {
	t.Helper()
	p, err := f.posts.Create(f.ctx, author.ID, CreatePostInput{
		Title:       title,
		Category:    "general",
		Description: "some words about " + title,
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return p
}

func wantKind(t *testing.T, err error, k Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", k)
	}
	if got := KindOf(err); got != k {
		t.Fatalf("expected %s error, got %s (%v)", k, got, err)
	}
}

func wantIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}

var secretInLink = regexp.MustCompile(`/(?:verify-account|reset-password)/([0-9a-f]{64})`)

func secretFrom(t *testing.T, msg mailer.Message) string {
	t.Helper()
	sm := secretInLink.FindStringSubmatch(msg.HTML)
	if sm == nil {
		t.Fatalf("no token link in mail: %q", msg.HTML)
	}
	return sm[1]
}
