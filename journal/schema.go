package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	trade_id TEXT NOT NULL UNIQUE,
	time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	contracts INTEGER NOT NULL,
	fill_price TEXT NOT NULL,
	stop_price TEXT NOT NULL,
	commission TEXT NOT NULL,
	realized_pl TEXT NOT NULL,
	outcome TEXT NOT NULL,
	reasoning TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS account (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	time DATETIME NOT NULL,
	balance TEXT NOT NULL,
	cumulative_pl TEXT NOT NULL,
	trades_today INTEGER NOT NULL,
	trade_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
`
