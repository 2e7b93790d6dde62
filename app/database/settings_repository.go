package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// GetInt returns def when the key is missing or does not hold an integer.
func (s *Store) GetInt(key string, def int64) (int64, error) {
	value, err := s.Get(key)
	if err != nil {
		return def, err
	}
	if value == "" {
		return def, nil
	}

	n, err := cast.ToInt64E(strings.TrimSpace(value))
	if err != nil {
		return def, nil
	}
	return n, nil
}

func (s *Store) GetBool(key string, def bool) (bool, error) {
	value, err := s.Get(key)
	if err != nil {
		return def, err
	}
	if value == "" {
		return def, nil
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true, nil
	default:
		return false, nil
	}
}
