package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"app/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addUsers(t *testing.T, s *Store, n int) []domain.UserID {
	t.Helper()
	ids := make([]domain.UserID, 0, n)
	for i := 0; i < n; i++ {
		id, err := s.AddUser(context.Background(), domain.Email(fmt.Sprintf("u%d@example.com", i)), "hash")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestAddUserDuplicateEmail(t *testing.T) {
	s := NewStore()
	_, err := s.AddUser(context.Background(), "a@b.c", "hash")
	require.NoError(t, err)

	_, err = s.AddUser(context.Background(), "a@b.c", "hash")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestApplyScoreUnknownUser(t *testing.T) {
	s := NewStore()
	addUsers(t, s, 1)

	err := s.ApplyScore(context.Background(), 999, 100)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// the table is unchanged, nobody got ranked
	entries, err := s.GetTop(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApplyScoreCancelledContextDoesNotApply(t *testing.T) {
	s := NewStore()
	ids := addUsers(t, s, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.ApplyScore(ctx, ids[0], 100)
	assert.Error(t, err)

	entries, err := s.GetTop(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDenseRankWithTies(t *testing.T) {
	s := NewStore()
	ids := addUsers(t, s, 3)
	ctx := context.Background()

	require.NoError(t, s.ApplyScore(ctx, ids[0], 100))
	require.NoError(t, s.ApplyScore(ctx, ids[1], 100))
	require.NoError(t, s.ApplyScore(ctx, ids[2], 80))

	entries, err := s.GetTop(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// both top users share rank 1, the next distinct score is rank 2
	assert.Equal(t, int64(1), entries[0].Rank)
	assert.Equal(t, int64(1), entries[1].Rank)
	assert.Equal(t, int64(2), entries[2].Rank)
	assert.Equal(t, int64(80), entries[2].TotalScore)
}

func TestUnrankedUsersStayOffTheBoard(t *testing.T) {
	s := NewStore()
	ids := addUsers(t, s, 2)
	require.NoError(t, s.ApplyScore(context.Background(), ids[0], 50))

	entries, err := s.GetTop(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "a user with zero guesses must not appear")
	assert.Equal(t, ids[0], entries[0].ID)
}

func TestGetTopBounds(t *testing.T) {
	s := NewStore()
	ids := addUsers(t, s, 5)
	ctx := context.Background()
	for i, id := range ids {
		require.NoError(t, s.ApplyScore(ctx, id, int64(100-i*10)))
	}

	entries, err := s.GetTop(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Greater(t, entry.Rank, int64(0))
		assert.LessOrEqual(t, entry.Rank, int64(2))
	}
}

func TestConcurrentAppliesKeepRanksDense(t *testing.T) {
	const users = 30
	s := NewStore()
	ids := addUsers(t, s, users)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(id domain.UserID, delta int64) {
			defer wg.Done()
			assert.NoError(t, s.ApplyScore(ctx, id, delta))
		}(id, int64((i%10)*50)) // deliberate score collisions
	}
	wg.Wait()

	entries, err := s.GetTop(ctx, users)
	require.NoError(t, err)
	require.Len(t, entries, users)

	// dense from 1, no gaps, ties share a rank, order follows score
	assert.Equal(t, int64(1), entries[0].Rank)
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		assert.LessOrEqual(t, cur.TotalScore, prev.TotalScore)
		if cur.TotalScore == prev.TotalScore {
			assert.Equal(t, prev.Rank, cur.Rank)
		} else {
			assert.Equal(t, prev.Rank+1, cur.Rank)
		}
	}
}
