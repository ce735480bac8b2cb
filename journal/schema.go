package journal

// Decimal columns are stored as TEXT so fixed-point values round-trip
// exactly; SQLite REAL would reintroduce binary-float drift.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	opened_at DATETIME NOT NULL,
	closed_at DATETIME NOT NULL,
	realized_pnl TEXT NOT NULL,
	balance_after TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_closed_at ON trades(closed_at);
`
