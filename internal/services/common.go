package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stepweaver/mern-blog-server/internal/repository"
)

// DefaultUpstreamTimeout bounds a mail or upload call.
const DefaultUpstreamTimeout = 15 * time.Second

// storeErr maps a store failure to notFound when the document is missing and
// wraps anything else as an internal error.
func storeErr(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return &Error{Kind: KindInternal, Err: fmt.Errorf("%s: %w", op, err)}
}

// upstreamContext detaches ctx from the request deadline and applies d, so a
// slow store call does not eat into the mail or upload budget.
func upstreamContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultUpstreamTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), d)
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
