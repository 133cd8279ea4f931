package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// LeaderboardService is the read path over RankStore.GetTop. Reads are
// bounded by a timeout so a reader never parks indefinitely behind a slow
// writer; a timed-out read surfaces as a retryable storage error.
type LeaderboardService struct {
	ranks       RankStore
	readTimeout time.Duration
	log         *slog.Logger
}

func NewLeaderboardService(ranks RankStore, readTimeout time.Duration, log *slog.Logger) *LeaderboardService {
	return &LeaderboardService{
		ranks:       ranks,
		readTimeout: readTimeout,
		log:         log,
	}
}

func (s *LeaderboardService) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	const op = "domain.LeaderboardService.Top"

	ctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	entries, err := s.ranks.GetTop(ctx, n)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Error(op, "error", "read timed out behind a writer")
			return nil, fmt.Errorf("%w: leaderboard read timed out", ErrStorageUnavailable)
		}
		s.log.Error(op, "error", err.Error())
		return nil, err
	}
	return entries, nil
}
