package storage

import (
	"log/slog"
	"time"

	"app/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/bool64/sqluct"
	"github.com/jmoiron/sqlx"
)

type Store struct {
	db  *sqlx.DB
	sq  sq.StatementBuilderType
	sm  sqluct.Mapper
	log *slog.Logger
}

type user struct {
	ID         int64     `db:"id"`
	Email      string    `db:"email"`
	Password   string    `db:"password"`
	Registered time.Time `db:"registered"`
}

type leaderboardRow struct {
	ID         int64  `db:"id"`
	Email      string `db:"email"`
	Rank       int64  `db:"rank"`
	TotalScore int64  `db:"total_score"`
	NumGuesses int64  `db:"num_guesses"`
}

func (u user) toDomain() domain.User {
	return domain.User{
		ID:         domain.UserID(u.ID),
		Email:      domain.Email(u.Email),
		PassHash:   u.Password,
		Registered: u.Registered,
	}
}

func (r leaderboardRow) toDomain() domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		ID:         domain.UserID(r.ID),
		Email:      domain.Email(r.Email),
		Rank:       r.Rank,
		TotalScore: r.TotalScore,
		NumGuesses: r.NumGuesses,
	}
}
