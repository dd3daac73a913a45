// Package state persists playback settings and the playlist across
// runs in a sqlite database.
package state

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "darkplay"
	dbFileName = "darkplay.db"
)

type Manager struct {
	db *sql.DB
}

// Open opens the state database at path, creating it if needed. An
// empty path uses the XDG data directory.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = xdg.DataFile(filepath.Join(appName, dbFileName))
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}
