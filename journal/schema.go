// journal/schema.go
package journal

// seq keeps insertion order; Replace updates in place so a rewritten
// trade keeps its position.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id TEXT NOT NULL UNIQUE,
	trade_date TEXT NOT NULL,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	quantity REAL NOT NULL,
	fees REAL NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Closed'
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);
`
