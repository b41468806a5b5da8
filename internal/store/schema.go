package store

const Schema = `
CREATE TABLE IF NOT EXISTS trackers (
	doc_id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	artist_name TEXT NOT NULL,
	eras TEXT,  -- JSON array
	track_count INTEGER DEFAULT 0,
	last_fetched DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS fetch_history (
	id TEXT PRIMARY KEY,
	doc_id TEXT NOT NULL,
	sheet_type TEXT NOT NULL,
	status TEXT NOT NULL,
	error TEXT,
	track_count INTEGER DEFAULT 0,
	duration_ms INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_fetch_history_doc_id ON fetch_history(doc_id, created_at);

CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	data BLOB,
	expires_at DATETIME,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
