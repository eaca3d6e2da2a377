package services

import (
	"testing"
	"time"

	m "github.com/stepweaver/mern-blog-server/internal/models"
)

func TestTokenIssueConsumeOnce(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ada", "ada@blog.test")

	secret, err := f.tokens.Issue(f.ctx, u.ID, m.TokenVerification)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(secret) != 64 {
		t.Fatalf("secret length = %d, want 64 hex chars", len(secret))
	}

	stored, _ := f.reload(t, u).Token(m.TokenVerification)
	if stored == secret || stored != HashToken(secret) {
		t.Fatalf("stored token must be the digest of the secret")
	}

	got, err := f.tokens.Consume(f.ctx, m.TokenVerification, secret)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("consumed token of %v, want %v", got.ID, u.ID)
	}

	_, err = f.tokens.Consume(f.ctx, m.TokenVerification, secret)
	wantIs(t, err, ErrTokenExpired)
}

func TestTokenExpiry(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ada", "ada@blog.test")

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.tokens.Now = func() time.Time { return now }

	secret, err := f.tokens.Issue(f.ctx, u.ID, m.TokenPasswordReset)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(30 * time.Minute)
	_, err = f.tokens.Consume(f.ctx, m.TokenPasswordReset, secret)
	wantIs(t, err, ErrTokenExpired)
}

func TestTokenPurposesAreSeparate(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ada", "ada@blog.test")

	secret, err := f.tokens.Issue(f.ctx, u.ID, m.TokenVerification)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = f.tokens.Consume(f.ctx, m.TokenPasswordReset, secret)
	wantIs(t, err, ErrTokenExpired)

	if _, err := f.tokens.Consume(f.ctx, m.TokenVerification, secret); err != nil {
		t.Fatalf("verification token should still be valid: %v", err)
	}
}

func TestTokenRevokeAndReissue(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ada", "ada@blog.test")

	first, _ := f.tokens.Issue(f.ctx, u.ID, m.TokenVerification)
	second, _ := f.tokens.Issue(f.ctx, u.ID, m.TokenVerification)

	_, err := f.tokens.Consume(f.ctx, m.TokenVerification, first)
	wantIs(t, err, ErrTokenExpired)

	if err := f.tokens.Revoke(f.ctx, u.ID, m.TokenVerification); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	_, err = f.tokens.Consume(f.ctx, m.TokenVerification, second)
	wantIs(t, err, ErrTokenExpired)
}

func TestTokenRejectsEmptyAndUnknownPurpose(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "Ada", "ada@blog.test")

	_, err := f.tokens.Consume(f.ctx, m.TokenVerification, "")
	wantIs(t, err, ErrTokenExpired)

	_, err = f.tokens.Issue(f.ctx, u.ID, m.TokenPurpose("bogus"))
	wantKind(t, err, KindInvalid)
}
