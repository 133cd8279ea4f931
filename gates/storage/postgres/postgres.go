package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"app/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/bool64/sqluct"
	"github.com/jmoiron/sqlx"
)

func NewDB(db *sqlx.DB, log *slog.Logger) *Store {
	return &Store{
		db:  db,
		sm:  sqluct.Mapper{Dialect: sqluct.DialectPostgres},
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		log: log,
	}
}

// AddUser creates the credential row and its rank row in one transaction so
// every account has a rank row from the moment it exists.
func (p *Store) AddUser(ctx context.Context, email domain.Email, passHash string) (domain.UserID, error) {
	const op = "storage.Postgres.AddUser"
	p.log.Debug(op, "email", email)

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return 0, fmt.Errorf("%w: begin tx: %v", domain.ErrStorageUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := p.sq.Insert("users").
		Columns("email", "password").
		Values(email, passHash).
		Suffix("ON CONFLICT (email) DO NOTHING RETURNING id")
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return 0, err
	}

	var id int64
	err = tx.GetContext(ctx, &id, qry, args...)
	if errors.Is(err, sql.ErrNoRows) {
		p.log.Debug(op, "email already registered", email)
		return 0, domain.ErrUserAlreadyExists
	}
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return 0, fmt.Errorf("%w: insert user: %v", domain.ErrStorageUnavailable, err)
	}

	qry, args, err = p.sq.Insert("user_ranks").Columns("id").Values(id).ToSql()
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return 0, err
	}
	if _, err = tx.ExecContext(ctx, qry, args...); err != nil {
		p.log.Error(op, "error", err.Error())
		return 0, fmt.Errorf("%w: insert rank row: %v", domain.ErrStorageUnavailable, err)
	}

	if err = tx.Commit(); err != nil {
		p.log.Error(op, "error", err.Error())
		return 0, fmt.Errorf("%w: commit: %v", domain.ErrStorageUnavailable, err)
	}
	p.log.Debug(op, "successfully added user", id)
	return domain.UserID(id), nil
}

func (p *Store) GetUserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	const op = "storage.Postgres.GetUserByEmail"
	p.log.Debug(op, "email", email)

	query := p.sm.Select(p.sq.Select(), &user{}).
		From("users").
		Where(sq.Eq{"email": email})
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return domain.User{}, err
	}

	var usr user
	err = p.db.GetContext(ctx, &usr, qry, args...)
	if errors.Is(err, sql.ErrNoRows) {
		p.log.Debug(op, "user not found", email)
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return domain.User{}, fmt.Errorf("%w: get user: %v", domain.ErrStorageUnavailable, err)
	}
	return usr.toDomain(), nil
}

// rerankQry rebuilds the rank column for every user with at least one guess:
// dense over total_score descending, ties share a rank, no gaps.
const rerankQry = `
UPDATE user_ranks AS ur
SET rank = ranked.new_rank
FROM (
    SELECT id, DENSE_RANK() OVER (ORDER BY total_score DESC) AS new_rank
    FROM user_ranks
    WHERE num_guesses > 0
) AS ranked
WHERE ur.id = ranked.id`

// ApplyScore adds delta to the user's running total, bumps the guess counter
// and recomputes every rank, all inside one SERIALIZABLE transaction. A
// reader never observes the new total with the old ordering or the reverse.
func (p *Store) ApplyScore(ctx context.Context, id domain.UserID, delta int64) error {
	const op = "storage.Postgres.ApplyScore"
	p.log.Debug(op, "user", id, "delta", delta)

	tx, err := p.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return fmt.Errorf("%w: begin tx: %v", domain.ErrStorageUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := p.sq.Update("user_ranks").
		Set("total_score", sq.Expr("total_score + ?", delta)).
		Set("num_guesses", sq.Expr("num_guesses + 1")).
		Where(sq.Eq{"id": id})
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return err
	}
	res, err := tx.ExecContext(ctx, qry, args...)
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return fmt.Errorf("%w: apply score: %v", domain.ErrStorageUnavailable, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return fmt.Errorf("%w: rows affected: %v", domain.ErrStorageUnavailable, err)
	}
	if rowsAffected == 0 {
		p.log.Debug(op, "no rank row for user", id)
		return domain.ErrUserNotFound
	}
	if rowsAffected > 1 {
		// the id column is the primary key, more than one row is corruption
		p.log.Error(op, "error", "score update hit multiple rows", "user", id, "rows", rowsAffected)
		return domain.ErrInternalInconsistency
	}

	if _, err = tx.ExecContext(ctx, rerankQry); err != nil {
		p.log.Error(op, "error", err.Error())
		return fmt.Errorf("%w: recompute ranks: %v", domain.ErrStorageUnavailable, err)
	}

	if err = tx.Commit(); err != nil {
		p.log.Error(op, "error", err.Error())
		return fmt.Errorf("%w: commit: %v", domain.ErrStorageUnavailable, err)
	}
	p.log.Debug(op, "successfully applied score for user", id)
	return nil
}

// GetTop returns the rows holding ranks 1..n, rank ascending. A single
// statement, so the result is one consistent snapshot of the table.
func (p *Store) GetTop(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	const op = "storage.Postgres.GetTop"
	p.log.Debug(op, "n", n)

	query := p.sq.Select("ur.id", "u.email", "ur.rank", "ur.total_score", "ur.num_guesses").
		From("user_ranks AS ur").
		Join("users AS u ON u.id = ur.id").
		Where(sq.And{
			sq.Gt{"ur.rank": 0},
			sq.LtOrEq{"ur.rank": n},
		}).
		OrderBy("ur.rank ASC", "u.email ASC").
		Limit(uint64(n)) // ties can overfill the rank window
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "error", err.Error())
		return nil, err
	}

	var rows []leaderboardRow
	if err := p.db.SelectContext(ctx, &rows, qry, args...); err != nil {
		p.log.Error(op, "error", err.Error())
		return nil, fmt.Errorf("get top: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	p.log.Debug(op, "rows retrieved", len(entries))
	return entries, nil
}
