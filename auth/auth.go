package auth

/*
Session verification for the guessing game. Tokens are HS256 JWTs carried in
the "jwt" cookie, signed with a process-wide secret loaded once at startup.
VerifyRequired gates every score mutation and fails closed; VerifyOptional is
for pages that render for anonymous visitors too, it never returns an error,
only a present/absent claim.
*/

import (
	"app/domain"
	"app/iternal/pkg"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Service struct {
	secretKey string
	ttl       time.Duration
	log       *slog.Logger
	cl        pkg.Clock
}

func NewService(secret string, ttl time.Duration, log *slog.Logger, cl pkg.Clock) *Service {
	return &Service{
		secretKey: secret,
		ttl:       ttl,
		log:       log,
		cl:        cl,
	}
}

// IssueToken signs a fresh token for a just-authenticated user.
func (s *Service) IssueToken(user domain.User) (string, error) {
	const op = "auth.IssueToken"
	s.log.Debug(op, "user", user.ID)

	claims := Claims{
		ID:    user.ID,
		Email: user.Email,
		Exp:   s.cl.Now().Add(s.ttl).Unix(),
	}

	signedToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims.mapClaims())
	tokenString, err := signedToken.SignedString([]byte(s.secretKey))
	if err != nil {
		s.log.Error("Failed to generate JWT", "op", op, "error", err)
		return "", err
	}

	s.log.Debug(op, "token issued for", user.ID)
	return tokenString, nil
}

// VerifyRequired checks the token signature and expiry and yields the claim.
// Every failure mode (no token, bad signature, wrong method, malformed
// claims, expired) collapses into domain.ErrInvalidToken.
func (s *Service) VerifyRequired(tokenString string) (Claims, error) {
	const op = "auth.VerifyRequired"
	var claims Claims

	if tokenString == "" {
		s.log.Debug(op, "reason", "no token")
		return claims, domain.ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			s.log.Warn("Unexpected signing method", "op", op, "method", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		s.log.Debug(op, "reason", err.Error())
		return claims, domain.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		s.log.Warn("Invalid token claims", "op", op)
		return claims, domain.ErrInvalidToken
	}

	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		s.log.Warn("Token expiration missing", "op", op)
		return claims, domain.ErrInvalidToken
	}
	if !s.cl.Now().Before(time.Unix(int64(exp), 0)) {
		s.log.Debug(op, "reason", "token expired")
		return claims, domain.ErrInvalidToken
	}

	id, ok := mapClaims["id"].(float64)
	if !ok {
		s.log.Warn("User ID missing in token", "op", op)
		return claims, domain.ErrInvalidToken
	}
	email, ok := mapClaims["email"].(string)
	if !ok {
		s.log.Warn("Email missing in token", "op", op)
		return claims, domain.ErrInvalidToken
	}

	claims = Claims{
		ID:    domain.UserID(int64(id)),
		Email: domain.Email(email),
		Exp:   int64(exp),
	}
	s.log.Debug(op, "verified user", claims.ID)
	return claims, nil
}

// VerifyOptional never fails: anonymous browsing is allowed, scoring is not.
// Any verification failure is swallowed and reported as "no claim".
func (s *Service) VerifyOptional(tokenString string) *Claims {
	claims, err := s.VerifyRequired(tokenString)
	if err != nil {
		return nil
	}
	return &claims
}
