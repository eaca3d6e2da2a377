package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

const DefaultTokenTTL = 30 * time.Minute

// TokenService issues and redeems single-use account tokens. Only the
// SHA-256 digest of a secret is stored.
type TokenService struct {
	users UserStore
	ttl   time.Duration
	Now   func() time.Time
}

func NewTokenService(users UserStore, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{users: users, ttl: ttl, Now: time.Now}
}

// HashToken is the stored form of a secret: unkeyed SHA-256, hex encoded.
func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Issue replaces any previous token of the same purpose and returns the secret.
func (s *TokenService) Issue(ctx context.Context, userID bson.ObjectID, p m.TokenPurpose) (string, error) {
	if !p.Valid() {
		return "", invalidf("unknown token purpose %q", p)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", &Error{Kind: KindInternal, Err: err}
	}
	secret := hex.EncodeToString(buf)
	expires := s.Now().Add(s.ttl)
	if err := s.users.SetToken(ctx, userID, p, HashToken(secret), expires); err != nil {
		return "", storeErr("set token", err, ErrUserNotFound)
	}
	return secret, nil
}

// Consume redeems secret exactly once. Unknown, used and expired secrets all
// fail with ErrTokenExpired.
func (s *TokenService) Consume(ctx context.Context, p m.TokenPurpose, secret string) (*m.User, error) {
	if !p.Valid() {
		return nil, invalidf("unknown token purpose %q", p)
	}
	if secret == "" {
		return nil, ErrTokenExpired
	}
	u, err := s.users.ConsumeToken(ctx, p, HashToken(secret), s.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		return nil, storeErr("consume token", err, nil)
	}
	return u, nil
}

// Revoke clears an issued token, e.g. when it could not be delivered.
func (s *TokenService) Revoke(ctx context.Context, userID bson.ObjectID, p m.TokenPurpose) error {
	return storeErr("clear token", s.users.ClearToken(ctx, userID, p), nil)
}
