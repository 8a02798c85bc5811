package model

import "github.com/golang-jwt/jwt/v5"

// TokenPurpose separates magic-link tokens from session tokens signed with the same secret.
type TokenPurpose string

const (
	PurposeLogin   TokenPurpose = "login"
	PurposeSession TokenPurpose = "session"
)

// Claims is the JWT payload. The email is the whole identity; nothing is stored server-side.
type Claims struct {
	Email   string       `json:"email"   validate:"required"`
	Purpose TokenPurpose `json:"purpose" validate:"required,oneof=login session"`
	jwt.RegisteredClaims
}
