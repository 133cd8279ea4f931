package server

import (
	"app/domain"
	"app/gates/cities"
)

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type guessRequest struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	CityID string  `json:"city_id"`
}

func (g guessRequest) toDomain() domain.Guess {
	return domain.Guess{
		Lat:    g.Lat,
		Lng:    g.Lng,
		CityID: g.CityID,
	}
}

type guessResponse struct {
	Distance  string `json:"distance"` // kilometers, rounded to 3 decimals
	Score     int64  `json:"score"`
	StaticMap string `json:"static_map,omitempty"`
}

type leaderboardRow struct {
	Rank       int64  `json:"rank"`
	Email      string `json:"email"`
	TotalScore int64  `json:"total_score"`
	NumGuesses int64  `json:"num_guesses"`
}

func fromDomain(entry domain.LeaderboardEntry) leaderboardRow {
	return leaderboardRow{
		Rank:       entry.Rank,
		Email:      string(entry.Email),
		TotalScore: entry.TotalScore,
		NumGuesses: entry.NumGuesses,
	}
}

type playResponse struct {
	City     cities.City `json:"city"`
	Image    string      `json:"image,omitempty"`
	LoggedIn bool        `json:"logged_in"`
}

const claimsContextKey = "claims"
