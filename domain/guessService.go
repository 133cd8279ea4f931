package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type GuessService struct {
	ranks  RankStore
	cities CityResolver
	score  ScoreModel
	log    *slog.Logger
}

func NewGuessService(ranks RankStore, cities CityResolver, score ScoreModel, log *slog.Logger) *GuessService {
	return &GuessService{
		ranks:  ranks,
		cities: cities,
		score:  score,
		log:    log,
	}
}

type GuessResult struct {
	City       Location
	DistanceKm float64
	Score      int64
}

// SubmitGuess scores one submission for an already-authenticated user:
// resolve the target city, measure the distance, convert it to points and
// apply them through the rank store. Any stage failure aborts the whole
// submission, nothing is applied.
func (s *GuessService) SubmitGuess(ctx context.Context, id UserID, guess Guess) (GuessResult, error) {
	const op = "domain.GuessService.SubmitGuess"
	s.log.Debug(op, "user", id, "city", guess.CityID)

	if err := guess.Validate(); err != nil {
		s.log.Debug(op, "rejected", err.Error())
		return GuessResult{}, err
	}

	city, err := s.cities.Resolve(guess.CityID)
	if err != nil {
		if errors.Is(err, ErrCityNotFound) {
			s.log.Debug(op, "unknown city", guess.CityID)
			return GuessResult{}, err
		}
		s.log.Error(op, "error", err.Error())
		return GuessResult{}, fmt.Errorf("resolve city: %w", err)
	}

	distance := Haversine(Location{Lat: guess.Lat, Lng: guess.Lng}, city)
	points := s.score.Score(distance)

	if err := s.ranks.ApplyScore(ctx, id, points); err != nil {
		s.log.Error(op, "error", err.Error())
		return GuessResult{}, err
	}

	s.log.Info(op, "user", id, "distance_km", distance, "score", points)
	return GuessResult{
		City:       city,
		DistanceKm: distance,
		Score:      points,
	}, nil
}
