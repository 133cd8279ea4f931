package domain

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"
)

type UserID int64
type Email string

type User struct {
	ID         UserID    `db:"id"`
	Email      Email     `db:"email"`
	PassHash   string    `db:"password"`
	Registered time.Time `db:"registered"`
}

// RankRow is the per-user score accumulator. One row per user, mutated only
// through RankStore.ApplyScore. Rank 0 means the user has not been ranked yet.
type RankRow struct {
	ID         UserID `db:"id"`
	TotalScore int64  `db:"total_score"`
	NumGuesses int64  `db:"num_guesses"`
	Rank       int64  `db:"rank"`
}

type LeaderboardEntry struct {
	ID         UserID `db:"id"`
	Email      Email  `db:"email"`
	Rank       int64  `db:"rank"`
	TotalScore int64  `db:"total_score"`
	NumGuesses int64  `db:"num_guesses"`
}

type Location struct {
	Lat float64
	Lng float64
}

// Guess is a single submission: where the player clicked and which city was asked.
type Guess struct {
	Lat    float64
	Lng    float64
	CityID string
}

func (g Guess) Validate() error {
	if g.Lat < -90 || g.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidGuess, g.Lat)
	}
	if g.Lng < -180 || g.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidGuess, g.Lng)
	}
	if g.CityID == "" {
		return fmt.Errorf("%w: missing city id", ErrInvalidGuess)
	}
	return nil
}

var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidGuess          = errors.New("invalid guess")
	ErrUserNotFound          = errors.New("user not found")
	ErrCityNotFound          = errors.New("city not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrInvalidPassword       = errors.New("invalid email or password")
	ErrInternalInconsistency = errors.New("rank row update affected an unexpected number of rows")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrNotEmail              = errors.New("wrong format of email")
)

func VerifyEmail(email Email) error {
	if _, err := mail.ParseAddress(string(email)); err != nil {
		return ErrNotEmail
	}
	return nil
}

type UserStore interface {
	AddUser(ctx context.Context, email Email, passHash string) (UserID, error)
	GetUserByEmail(ctx context.Context, email Email) (User, error)
}

// RankStore owns all mutation of rank rows. ApplyScore must apply the score
// delta and the whole-table dense-rank recompute as one atomic unit; GetTop
// must read a single consistent snapshot.
type RankStore interface {
	ApplyScore(ctx context.Context, id UserID, delta int64) error
	GetTop(ctx context.Context, n int) ([]LeaderboardEntry, error)
}

type CityResolver interface {
	Resolve(cityID string) (Location, error)
}
