package services

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthenticated
	KindUnauthorized
	KindNotFound
	KindConflict
	KindQuotaExceeded
	KindProfane
	KindExpired
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindProfane:
		return "profane"
	case KindExpired:
		return "expired"
	case KindUpstream:
		return "upstream_failure"
	default:
		return "internal"
	}
}

// Error is a classified failure. Msg is safe to show to a client.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrInvalidInput       = &Error{Kind: KindInvalid, Msg: "invalid input"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Msg: "not authenticated"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Msg: "You shall not pass! Invalid credentials"}
	ErrBlocked            = &Error{Kind: KindUnauthorized, Msg: "user is blocked"}
	ErrForbidden          = &Error{Kind: KindUnauthorized, Msg: "forbidden"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Msg: "user not found"}
	ErrPostNotFound       = &Error{Kind: KindNotFound, Msg: "post not found"}
	ErrCommentNotFound    = &Error{Kind: KindNotFound, Msg: "comment not found"}
	ErrCategoryNotFound   = &Error{Kind: KindNotFound, Msg: "category not found"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Msg: "User already exists"}
	ErrAlreadyFollowing   = &Error{Kind: KindConflict, Msg: "you are already following this user"}
	ErrReactionConflict   = &Error{Kind: KindConflict, Msg: "post changed concurrently, try again"}
	ErrQuotaExceeded      = &Error{Kind: KindQuotaExceeded, Msg: "Noob accounts may only create two posts. You must have at least two followers to be upgraded to a Pro account."}
	ErrProfane            = &Error{Kind: KindProfane, Msg: "Profanity not allowed. You have been blocked"}
	ErrProfaneMessage     = &Error{Kind: KindProfane, Msg: "Email failed. Contains profanity."}
	ErrTokenExpired       = &Error{Kind: KindExpired, Msg: "Token expired. Try again later"}
	ErrUpstream           = &Error{Kind: KindUpstream, Msg: "upstream service unavailable"}
)

func invalidf(format string, args ...any) error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...), Err: ErrInvalidInput}
}

func upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: errors.Join(ErrUpstream, err)}
}

func blockedError(name string) error {
	return &Error{Kind: KindUnauthorized, Msg: fmt.Sprintf("Denied! %s is blocked.", name), Err: ErrBlocked}
}

// KindOf reports the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the text a client may see for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		if e.Msg != "" {
			return e.Msg
		}
		return e.Kind.String()
	}
	return "internal server error"
}
