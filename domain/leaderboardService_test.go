package domain

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRanks struct {
	entries []LeaderboardEntry
}

func (s stubRanks) ApplyScore(context.Context, UserID, int64) error { return nil }

func (s stubRanks) GetTop(context.Context, int) ([]LeaderboardEntry, error) {
	return s.entries, nil
}

// slowRanks imitates a read parked behind a long-running writer.
type slowRanks struct{}

func (slowRanks) ApplyScore(context.Context, UserID, int64) error { return nil }

func (slowRanks) GetTop(ctx context.Context, _ int) ([]LeaderboardEntry, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLeaderboardTop(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	entries := []LeaderboardEntry{
		{ID: 1, Email: "a@b.c", Rank: 1, TotalScore: 100, NumGuesses: 2},
		{ID: 2, Email: "d@e.f", Rank: 2, TotalScore: 80, NumGuesses: 1},
	}
	svc := NewLeaderboardService(stubRanks{entries: entries}, time.Second, log)

	got, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestLeaderboardTopTimesOutBehindWriter(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewLeaderboardService(slowRanks{}, 20*time.Millisecond, log)

	_, err := svc.Top(context.Background(), 10)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
