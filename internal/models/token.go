package models

import "time"

// TokenPurpose selects which pair of user fields holds a one-time token.
type TokenPurpose string

const (
	TokenVerification  TokenPurpose = "verification"
	TokenPasswordReset TokenPurpose = "passwordReset"
)

// Fields returns the bson names of the hash and expiry fields for the purpose.
func (p TokenPurpose) Fields() (hashField, expiresField string) {
	if p == TokenPasswordReset {
		return "passwordResetToken", "passwordResetExpires"
	}
	return "accountVerificationToken", "accountVerificationTokenExpires"
}

func (p TokenPurpose) Valid() bool {
	return p == TokenVerification || p == TokenPasswordReset
}

// Token returns the stored hash and expiry for the purpose.
func (u *User) Token(p TokenPurpose) (string, *time.Time) {
	if p == TokenPasswordReset {
		return u.PasswordResetToken, u.PasswordResetExpires
	}
	return u.AccountVerificationToken, u.AccountVerificationTokenExpires
}

func (u *User) SetToken(p TokenPurpose, hash string, expires *time.Time) {
	if p == TokenPasswordReset {
		u.PasswordResetToken, u.PasswordResetExpires = hash, expires
		return
	}
	u.AccountVerificationToken, u.AccountVerificationTokenExpires = hash, expires
}
