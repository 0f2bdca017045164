package pgstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ohhell/internal/ports"
)

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

// fakeDB emulates the scorecards table for the three statements the store issues.
type fakeDB struct {
	rows  map[string][]byte
	execs []string
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		f.rows[args[0].(string)] = args[1].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.HasPrefix(sql, "DELETE"):
		delete(f.rows, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	data, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{rows: map[string][]byte{}}
	s := New(db)

	require.NoError(t, s.Migrate(ctx))
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS scorecards")

	_, err := s.Load(ctx, "owner")
	require.ErrorIs(t, err, ports.ErrSnapshotNotFound)

	require.NoError(t, s.Save(ctx, "owner", []byte(`{"id":"g"}`)))
	got, err := s.Load(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"g"}`, string(got))

	require.NoError(t, s.Delete(ctx, "owner"))
	_, err = s.Load(ctx, "owner")
	require.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestLoadWrapsDriverErrors(t *testing.T) {
	boom := errors.New("conn reset")
	s := New(&errDB{err: boom})
	_, err := s.Load(context.Background(), "owner")
	require.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ports.ErrSnapshotNotFound))
}

type errDB struct{ err error }

func (e *errDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, e.err
}

func (e *errDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{err: e.err}
}
