package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// RecordTrade inserts one settled trade. INSERT OR IGNORE on the primary key
// makes a retried append idempotent.
func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT OR IGNORE INTO trades
		(trade_id, symbol, side, quantity, entry_price, exit_price, opened_at, closed_at, realized_pnl, balance_after, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, t.Side, t.Quantity.String(), t.EntryPrice.String(), t.ExitPrice.String(),
		t.OpenedAt.UTC().Format(time.RFC3339), t.ClosedAt.UTC().Format(time.RFC3339),
		t.RealizedPnL.String(), t.BalanceAfter.String(), t.Reason,
	)
	return err
}

// Trades returns all recorded trades, oldest first.
func (j *SQLiteJournal) Trades() ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, symbol, side, quantity, entry_price, exit_price, opened_at, closed_at, realized_pnl, balance_after, reason
		FROM trades ORDER BY closed_at, trade_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		var qty, entry, exit, pnl, after, openedAt, closedAt string
		if err := rows.Scan(&t.ID, &t.Symbol, &t.Side, &qty, &entry, &exit, &openedAt, &closedAt, &pnl, &after, &t.Reason); err != nil {
			return nil, err
		}
		if err := scanDecimals(&t, qty, entry, exit, pnl, after); err != nil {
			return nil, err
		}
		if t.OpenedAt, err = time.Parse(time.RFC3339, openedAt); err != nil {
			return nil, fmt.Errorf("parse opened_at %q: %w", openedAt, err)
		}
		if t.ClosedAt, err = time.Parse(time.RFC3339, closedAt); err != nil {
			return nil, fmt.Errorf("parse closed_at %q: %w", closedAt, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
