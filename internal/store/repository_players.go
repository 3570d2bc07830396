package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	playerColumns = `id, name, balance_cents, created_at, updated_at`

	numericOutOfRange = "22003"
)

func (s *Store) GetPlayer(ctx context.Context, id string) (*Player, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

// GetOrCreatePlayer returns the player, inserting it with a zero balance and
// the given name when it does not exist yet. created reports the insert.
func (s *Store) GetOrCreatePlayer(ctx context.Context, id, name string) (*Player, bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO players (id, name, balance_cents)
		VALUES ($1, $2, 0)
		ON CONFLICT (id) DO NOTHING`, id, name)
	if err != nil {
		return nil, false, err
	}
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, tag.RowsAffected() == 1, nil
}

// EnsurePlayer seeds a player; an existing row is left untouched.
func (s *Store) EnsurePlayer(ctx context.Context, id, name string, initialCents int64) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO players (id, name, balance_cents)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`, id, name, initialCents)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AdjustBalance applies the delta with a single conditional UPDATE, so
// concurrent adjustments of one player serialize on the row lock instead of
// overwriting each other. The audit entry is written in the same transaction.
func (s *Store) AdjustBalance(ctx context.Context, playerID string, adj Adjustment) (*BalanceEntry, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE players
		SET balance_cents = balance_cents + $2, updated_at = now()
		WHERE id = $1 AND ($3::boolean OR balance_cents + $2 >= 0)
		RETURNING balance_cents`, playerID, adj.DeltaCents, adj.AllowNegative).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM players WHERE id = $1)`, playerID).Scan(&exists); err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrInsufficientBalance
		}
		return nil, ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == numericOutOfRange {
			return nil, ErrBalanceOverflow
		}
		return nil, err
	}

	entry := &BalanceEntry{
		ID:                NewEntryID(),
		PlayerID:          playerID,
		Action:            adj.Action,
		AmountCents:       adj.amountCents(),
		BalanceAfterCents: balance,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO balance_entries (id, player_id, action, amount_cents, balance_after_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		entry.ID, entry.PlayerID, entry.Action, entry.AmountCents, entry.BalanceAfterCents).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Store) ListBalanceEntries(ctx context.Context, playerID string, limit, offset int) ([]BalanceEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, player_id, action, amount_cents, balance_after_cents, created_at
		FROM balance_entries
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, playerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BalanceEntry, 0, limit)
	for rows.Next() {
		var e BalanceEntry
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.Action, &e.AmountCents, &e.BalanceAfterCents, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanPlayer(row pgx.Row) (*Player, error) {
	var p Player
	if err := row.Scan(&p.ID, &p.Name, &p.BalanceCents, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
