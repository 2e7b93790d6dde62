package database

import (
	"fmt"
	"strings"
)

// Keywords are stored lowercased so matching stays a plain substring test.
func normalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

func (s *Store) AddFilter(keyword string) error {
	keyword = normalizeKeyword(keyword)
	if keyword == "" {
		return fmt.Errorf("filter keyword is empty")
	}

	if _, err := s.db.Exec(`INSERT INTO filters (keyword) VALUES (?) ON CONFLICT(keyword) DO NOTHING`, keyword); err != nil {
		return fmt.Errorf("failed to add filter %q: %w", keyword, err)
	}
	return nil
}

func (s *Store) RemoveFilter(keyword string) error {
	if _, err := s.db.Exec(`DELETE FROM filters WHERE keyword = ?`, normalizeKeyword(keyword)); err != nil {
		return fmt.Errorf("failed to remove filter %q: %w", keyword, err)
	}
	return nil
}

func (s *Store) ListFilters() ([]string, error) {
	rows, err := s.db.Query(`SELECT keyword FROM filters ORDER BY keyword`)
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var keyword string
		if err := rows.Scan(&keyword); err != nil {
			return nil, fmt.Errorf("failed to scan filter: %w", err)
		}
		keywords = append(keywords, keyword)
	}

	return keywords, rows.Err()
}
