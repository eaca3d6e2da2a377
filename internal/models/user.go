package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultProfilePhoto = "https://res.cloudinary.com/dp6wqzo2o/image/upload/v1702566305/anon_m9nm4m.webp"

	// PasswordCost is the bcrypt cost used for every stored credential.
	PasswordCost = 10

	// ProFollowerThreshold is the follower count at which an account becomes Pro.
	ProFollowerThreshold = 2
)

type AccountType string

const (
	AccountNoob AccountType = "Noob"
	AccountPro  AccountType = "Pro"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleGuest   Role = "Guest"
	RoleBlogger Role = "Blogger"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FirstName    string        `bson:"firstName" json:"firstName"`
	LastName     string        `bson:"lastName" json:"lastName"`
	ProfilePhoto string        `bson:"profilePhoto" json:"profilePhoto"`
	Email        string        `bson:"email" json:"email"`
	Bio          string        `bson:"bio,omitempty" json:"bio,omitempty"`
	Password     string        `bson:"password" json:"-"`
	PostCount    int           `bson:"postCount" json:"postCount"`
	IsBlocked    bool          `bson:"isBlocked" json:"isBlocked"`
	IsAdmin      bool          `bson:"isAdmin" json:"isAdmin"`
	Role         Role          `bson:"role,omitempty" json:"role,omitempty"`

	IsFollowing       bool `bson:"isFollowing" json:"isFollowing"`
	IsUnFollowing     bool `bson:"isUnFollowing" json:"isUnFollowing"`
	IsAccountVerified bool `bson:"isAccountVerified" json:"isAccountVerified"`

	AccountVerificationToken        string     `bson:"accountVerificationToken,omitempty" json:"-"`
	AccountVerificationTokenExpires *time.Time `bson:"accountVerificationTokenExpires,omitempty" json:"-"`

	ViewedBy  []bson.ObjectID `bson:"viewedBy" json:"viewedBy"`
	Followers []bson.ObjectID `bson:"followers" json:"followers"`
	Following []bson.ObjectID `bson:"following" json:"following"`

	PasswordChangeAt     *time.Time `bson:"passwordChangeAt,omitempty" json:"passwordChangeAt,omitempty"`
	PasswordResetToken   string     `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"passwordResetExpires,omitempty" json:"-"`
	Active               bool       `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SetPassword is the only place a plain password becomes a stored hash.
func (u *User) SetPassword(plain string, now time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	u.PasswordChangeAt = &now
	return nil
}

func (u *User) PasswordMatches(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// AccountType is derived from the follower count and never stored.
func (u *User) AccountType() AccountType {
	if len(u.Followers) >= ProFollowerThreshold {
		return AccountPro
	}
	return AccountNoob
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) HasFollower(id bson.ObjectID) bool { return containsID(u.Followers, id) }

func (u *User) IsFollowingUser(id bson.ObjectID) bool { return containsID(u.Following, id) }

func (u *User) ViewedByUser(id bson.ObjectID) bool { return containsID(u.ViewedBy, id) }

func containsID(ids []bson.ObjectID, id bson.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveID returns ids without any occurrence of id.
func RemoveID(ids []bson.ObjectID, id bson.ObjectID) []bson.ObjectID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ProfileUpdate carries the user-editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Bio       *string
}

type UserWithPosts struct {
	User  `bson:",inline"`
	Posts []Post `bson:"posts" json:"posts"`
}
