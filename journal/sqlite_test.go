package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func sampleTrade(id, date string) Trade {
	d, _ := time.ParseInLocation(DateLayout, date, time.UTC)
	return Trade{
		ID:         id,
		Date:       d,
		Symbol:     "BTCUSDT",
		Direction:  Long,
		EntryPrice: 100,
		ExitPrice:  110,
		Quantity:   2,
		Fees:       1,
		Notes:      "test",
		Status:     Closed,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestSQLite(t)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = 'trades'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "trades", name)
}

func TestSQLiteAddGet(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	rec := sampleTrade("T1", "2024-01-02")
	require.NoError(t, s.Add(ctx, rec))

	got, err := s.Get(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, rec.Date.Equal(got.Date))
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Direction, got.Direction)
	assert.InDelta(t, rec.EntryPrice, got.EntryPrice, 1e-9)
	assert.InDelta(t, rec.ExitPrice, got.ExitPrice, 1e-9)
	assert.InDelta(t, rec.Quantity, got.Quantity, 1e-9)
	assert.InDelta(t, rec.Fees, got.Fees, 1e-9)
	assert.Equal(t, rec.Notes, got.Notes)
	assert.Equal(t, Closed, got.Status)
}

func TestSQLiteAddRejectsInvalid(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)

	bad := sampleTrade("T1", "2024-01-02")
	bad.Quantity = 0
	err := s.Add(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidTrade)
}

func TestSQLiteAddDuplicateID(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleTrade("T1", "2024-01-02")))
	assert.Error(t, s.Add(ctx, sampleTrade("T1", "2024-01-03")))
}

func TestSQLiteGetNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleTrade("B", "2024-01-05")))
	require.NoError(t, s.Add(ctx, sampleTrade("A", "2024-01-01")))
	require.NoError(t, s.Add(ctx, sampleTrade("C", "2024-01-05")))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].ID)
	assert.Equal(t, "A", got[1].ID)
	assert.Equal(t, "C", got[2].ID)
}

func TestSQLiteReplace(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sampleTrade("A", "2024-01-01")))
	require.NoError(t, s.Add(ctx, sampleTrade("B", "2024-01-02")))

	upd := sampleTrade("A", "2024-02-01")
	upd.Direction = Short
	upd.Symbol = "ETHUSDT"
	require.NoError(t, s.Replace(ctx, upd))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ID, "replace keeps position")
	assert.Equal(t, Short, got[0].Direction)
	assert.Equal(t, "ETHUSDT", got[0].Symbol)
	assert.Equal(t, "2024-02-01", got[0].DateString())

	err = s.Replace(ctx, sampleTrade("missing", "2024-01-01"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteDeleteAndReset(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, s.Add(ctx, sampleTrade(id, "2024-01-01")))
	}

	require.NoError(t, s.Delete(ctx, "B"))
	assert.ErrorIs(t, s.Delete(ctx, "B"), ErrNotFound)

	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, s.Reset(ctx))
	got, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteAddAll(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.AddAll(ctx, []Trade{
		sampleTrade("B", "2024-01-05"),
		sampleTrade("A", "2024-01-01"),
	}))
	require.NoError(t, s.AddAll(ctx, nil))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].ID)
	assert.Equal(t, "A", got[1].ID)
}

func TestSQLiteAddAllRollsBack(t *testing.T) {
	t.Parallel()

	bad := sampleTrade("X", "2024-01-03")
	bad.Quantity = 0

	tests := []struct {
		name    string
		batch   []Trade
		invalid bool
	}{
		{
			name:  "duplicate of existing id",
			batch: []Trade{sampleTrade("N1", "2024-01-02"), sampleTrade("A", "2024-01-03")},
		},
		{
			name:  "duplicate inside batch",
			batch: []Trade{sampleTrade("N1", "2024-01-02"), sampleTrade("N2", "2024-01-02"), sampleTrade("N1", "2024-01-04")},
		},
		{
			name:    "invalid trade",
			batch:   []Trade{sampleTrade("N1", "2024-01-02"), bad},
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSQLite(t)
			ctx := context.Background()
			require.NoError(t, s.Add(ctx, sampleTrade("A", "2024-01-01")))

			err := s.AddAll(ctx, tt.batch)
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidTrade)
			}

			got, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "A", got[0].ID)

			_, err = s.Get(ctx, "N1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
