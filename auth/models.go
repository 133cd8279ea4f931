package auth

import (
	"app/domain"
	jwt "github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the signed token travels in.
const CookieName = "jwt"

// Claims is the identity a verified token asserts. Derived from the token
// alone, never persisted and never cross-checked against storage.
type Claims struct {
	ID    domain.UserID
	Email domain.Email
	Exp   int64 // unix seconds
}

func (c Claims) mapClaims() jwt.Claims {
	return jwt.MapClaims{
		"id":    int64(c.ID),
		"email": string(c.Email),
		"exp":   c.Exp,
	}
}
