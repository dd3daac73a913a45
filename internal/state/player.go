package state

import "database/sql"

// PlayerState represents the saved playback settings.
type PlayerState struct {
	Volume       int
	Muted        bool
	AutoPlay     bool
	Repeat       bool
	Rate         float64
	CurrentIndex int
}

// GetPlayer returns the saved playback settings, or defaults if none
// have been saved yet.
func (m *Manager) GetPlayer() (*PlayerState, error) {
	row := m.db.QueryRow(`
		SELECT volume, muted, auto_play, repeat_mode, rate, current_index
		FROM player_state WHERE id = 1
	`)

	var s PlayerState
	err := row.Scan(&s.Volume, &s.Muted, &s.AutoPlay, &s.Repeat, &s.Rate, &s.CurrentIndex)
	if err == sql.ErrNoRows {
		return &PlayerState{Volume: 70, Rate: 1.0, CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SavePlayer persists the playback settings.
func (m *Manager) SavePlayer(s PlayerState) error {
	_, err := m.db.Exec(`
		INSERT INTO player_state (id, volume, muted, auto_play, repeat_mode, rate, current_index)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted,
			auto_play = excluded.auto_play,
			repeat_mode = excluded.repeat_mode,
			rate = excluded.rate,
			current_index = excluded.current_index
	`, s.Volume, s.Muted, s.AutoPlay, s.Repeat, s.Rate, s.CurrentIndex)
	return err
}
