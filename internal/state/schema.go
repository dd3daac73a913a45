package state

import (
	"database/sql"
)

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS player_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			volume INTEGER NOT NULL DEFAULT 70,
			muted INTEGER NOT NULL DEFAULT 0,
			auto_play INTEGER NOT NULL DEFAULT 0,
			repeat_mode INTEGER NOT NULL DEFAULT 0,
			rate REAL NOT NULL DEFAULT 1.0,
			current_index INTEGER NOT NULL DEFAULT -1
		);

		CREATE TABLE IF NOT EXISTS playlist_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			locator TEXT NOT NULL,
			UNIQUE(position)
		);

		CREATE INDEX IF NOT EXISTS idx_playlist_entries_position ON playlist_entries(position);
	`)
	return err
}
