package state

import (
	"database/sql"

	"github.com/darkplay/darkplay/internal/db"
)

// GetPlaylist returns the saved playlist entries in order.
func (m *Manager) GetPlaylist() ([]string, error) {
	rows, err := m.db.Query(`SELECT locator FROM playlist_entries ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var locator string
		if err := rows.Scan(&locator); err != nil {
			return nil, err
		}
		entries = append(entries, locator)
	}
	return entries, rows.Err()
}

// SavePlaylist replaces the saved playlist with the given entries.
func (m *Manager) SavePlaylist(entries []string) error {
	return db.WithTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM playlist_entries`); err != nil {
			return err
		}
		for i, locator := range entries {
			if _, err := tx.Exec(
				`INSERT INTO playlist_entries (position, locator) VALUES (?, ?)`,
				i, locator,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
