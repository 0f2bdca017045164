// Package pgstore keeps scorecard snapshots in a Postgres jsonb table.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ohhell/internal/ports"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS scorecards (
	owner_id   TEXT PRIMARY KEY,
	snapshot   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	loadSQL   = `SELECT snapshot FROM scorecards WHERE owner_id = $1`
	upsertSQL = `INSERT INTO scorecards (owner_id, snapshot, updated_at) VALUES ($1, $2, now())
ON CONFLICT (owner_id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`
	deleteSQL = `DELETE FROM scorecards WHERE owner_id = $1`
)

// querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements ports.GameStore on Postgres.
type Store struct {
	db querier
}

func New(db querier) *Store {
	return &Store{db: db}
}

// Open connects a pool to databaseURL and ensures the scorecards table exists.
func Open(ctx context.Context, databaseURL string) (*Store, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := New(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return s, pool, nil
}

// Migrate creates the scorecards table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create scorecards table: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, ownerID string) ([]byte, error) {
	var snapshot []byte
	err := s.db.QueryRow(ctx, loadSQL, ownerID).Scan(&snapshot)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load scorecard %s: %w", ownerID, err)
	}
	return snapshot, nil
}

func (s *Store) Save(ctx context.Context, ownerID string, snapshot []byte) error {
	if _, err := s.db.Exec(ctx, upsertSQL, ownerID, snapshot); err != nil {
		return fmt.Errorf("save scorecard %s: %w", ownerID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ownerID string) error {
	if _, err := s.db.Exec(ctx, deleteSQL, ownerID); err != nil {
		return fmt.Errorf("delete scorecard %s: %w", ownerID, err)
	}
	return nil
}

var _ ports.GameStore = (*Store)(nil)
