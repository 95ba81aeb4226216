package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const tradeColumns = `trade_id, trade_date, symbol, direction, entry_price, exit_price, quantity, fees, notes, status`

// SQLiteStore is a Store backed by a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, t Trade) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.DateString(), t.Symbol, string(t.Direction), t.EntryPrice,
		t.ExitPrice, t.Quantity, t.Fees, t.Notes, string(t.Status),
	)
	if err != nil {
		return fmt.Errorf("insert trade %q: %w", t.ID, err)
	}
	return nil
}

// AddAll inserts trades in order inside one transaction. Nothing is stored
// unless every trade is valid and inserted.
func (s *SQLiteStore) AddAll(ctx context.Context, trades []Trade) error {
	for i, t := range trades {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("trade %d (%s): %w", i+1, t.ID, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// no-op after Commit
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range trades {
		_, err := stmt.ExecContext(ctx,
			t.ID, t.DateString(), t.Symbol, string(t.Direction), t.EntryPrice,
			t.ExitPrice, t.Quantity, t.Fees, t.Notes, string(t.Status),
		)
		if err != nil {
			return fmt.Errorf("insert trade %d (%s): %w", i+1, t.ID, err)
		}
	}
	return tx.Commit()
}

// Replace overwrites every field of an existing trade.
func (s *SQLiteStore) Replace(ctx context.Context, t Trade) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET
			trade_date = ?, symbol = ?, direction = ?, entry_price = ?, exit_price = ?,
			quantity = ?, fees = ?, notes = ?, status = ?
		WHERE trade_id = ?`,
		t.DateString(), t.Symbol, string(t.Direction), t.EntryPrice, t.ExitPrice,
		t.Quantity, t.Fees, t.Notes, string(t.Status), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update trade %q: %w", t.ID, err)
	}
	return expectOne(res, t.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trade %q: %w", id, err)
	}
	return expectOne(res, id)
}

// Get returns a single trade by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE trade_id = ?`, id)

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return Trade{}, err
	}
	return t, nil
}

// List returns every trade in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset removes every trade.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("reset trades: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(sc scanner) (Trade, error) {
	var (
		t         Trade
		date      string
		direction string
		status    string
	)
	err := sc.Scan(
		&t.ID,
		&date,
		&t.Symbol,
		&direction,
		&t.EntryPrice,
		&t.ExitPrice,
		&t.Quantity,
		&t.Fees,
		&t.Notes,
		&status,
	)
	if err != nil {
		return Trade{}, err
	}

	if t.Date, err = ParseDate(date); err != nil {
		return Trade{}, fmt.Errorf("trade %q: %w", t.ID, err)
	}
	t.Direction = Direction(direction)
	t.Status = Status(status)
	return t, nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}
