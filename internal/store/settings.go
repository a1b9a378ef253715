package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

const (
	keyMinEntryMinutes = "min_entry_minutes"
	keyDailyGoalHours  = "daily_goal_hours"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setSetting(db execer, key, value string) error {
	_, err := db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}
	return nil
}

// GetSettings returns the typed settings. Values that fail to parse fall back
// to the seeded defaults.
func (s *Store) GetSettings() (Settings, error) {
	out := Settings{MinEntryMinutes: 15, DailyGoalHours: 8}

	v, err := s.GetSetting(keyMinEntryMinutes)
	if err != nil {
		return out, err
	}
	if n, err := strconv.Atoi(v); err == nil {
		out.MinEntryMinutes = n
	}

	v, err = s.GetSetting(keyDailyGoalHours)
	if err != nil {
		return out, err
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		out.DailyGoalHours = f
	}
	return out, nil
}

// UpdateSettings merges patch over the stored settings and returns the result.
func (s *Store) UpdateSettings(p SettingsPatch) (Settings, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Settings{}, fmt.Errorf("begin settings update: %w", err)
	}
	defer tx.Rollback()

	if p.MinEntryMinutes != nil {
		if err := setSetting(tx, keyMinEntryMinutes, strconv.Itoa(*p.MinEntryMinutes)); err != nil {
			return Settings{}, err
		}
	}
	if p.DailyGoalHours != nil {
		if err := setSetting(tx, keyDailyGoalHours, strconv.FormatFloat(*p.DailyGoalHours, 'f', -1, 64)); err != nil {
			return Settings{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Settings{}, fmt.Errorf("commit settings update: %w", err)
	}
	return s.GetSettings()
}
