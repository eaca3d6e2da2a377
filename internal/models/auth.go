package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued at login. UID mirrors Subject.
type Claims struct {
	UID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}
