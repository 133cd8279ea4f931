package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"app/domain"
)

// Store keeps users and rank rows in process memory behind a single mutex,
// which is the serialization point the rank invariant needs when there is no
// transactional database underneath. Used by tests and local runs.
type Store struct {
	mu     sync.Mutex
	users  map[domain.UserID]*row
	byMail map[domain.Email]domain.UserID
	nextID domain.UserID
}

type row struct {
	id         domain.UserID
	email      domain.Email
	passHash   string
	registered time.Time
	totalScore int64
	numGuesses int64
	rank       int64
}

func NewStore() *Store {
	return &Store{
		users:  make(map[domain.UserID]*row),
		byMail: make(map[domain.Email]domain.UserID),
		nextID: 1,
	}
}

func (s *Store) AddUser(_ context.Context, email domain.Email, passHash string) (domain.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMail[email]; exists {
		return 0, domain.ErrUserAlreadyExists
	}
	id := s.nextID
	s.nextID++
	s.users[id] = &row{
		id:         id,
		email:      email,
		passHash:   passHash,
		registered: time.Now(),
	}
	s.byMail[email] = id
	return id, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email domain.Email) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byMail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	r := s.users[id]
	return domain.User{
		ID:         r.id,
		Email:      r.email,
		PassHash:   r.passHash,
		Registered: r.registered,
	}, nil
}

// ApplyScore mirrors the Postgres transaction: the score update and the
// whole-table dense-rank recompute happen under one lock hold, so no reader
// or writer observes a half-applied state.
func (s *Store) ApplyScore(ctx context.Context, id domain.UserID, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// an abandoned submission must not apply
	if err := ctx.Err(); err != nil {
		return err
	}

	r, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.totalScore += delta
	r.numGuesses++

	s.rerankLocked()
	return nil
}

// rerankLocked rebuilds the rank column: dense over totalScore descending
// across every row with at least one guess. Caller holds the mutex.
func (s *Store) rerankLocked() {
	ranked := make([]*row, 0, len(s.users))
	for _, r := range s.users {
		if r.numGuesses > 0 {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].totalScore > ranked[j].totalScore
	})

	rank := int64(0)
	prevScore := int64(-1)
	for i, r := range ranked {
		if i == 0 || r.totalScore != prevScore {
			rank++
		}
		r.rank = rank
		prevScore = r.totalScore
	}
}

func (s *Store) GetTop(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, n)
	for _, r := range s.users {
		if r.rank > 0 && r.rank <= int64(n) {
			entries = append(entries, domain.LeaderboardEntry{
				ID:         r.id,
				Email:      r.email,
				Rank:       r.rank,
				TotalScore: r.totalScore,
				NumGuesses: r.numGuesses,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank < entries[j].Rank
		}
		return entries[i].Email < entries[j].Email // deterministic tie order
	})
	if len(entries) > n {
		entries = entries[:n] // ties can overfill the rank window
	}
	return entries, nil
}
