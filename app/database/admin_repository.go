package database

import (
	"fmt"
)

func (s *Store) AddAdmin(userID int64) error {
	if _, err := s.db.Exec(`INSERT INTO admins (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`, userID); err != nil {
		return fmt.Errorf("failed to add admin %d: %w", userID, err)
	}
	return nil
}

func (s *Store) RemoveAdmin(userID int64) error {
	if _, err := s.db.Exec(`DELETE FROM admins WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to remove admin %d: %w", userID, err)
	}
	return nil
}

func (s *Store) ListAdmins() ([]int64, error) {
	rows, err := s.db.Query(`SELECT user_id FROM admins ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, id)
	}

	return admins, rows.Err()
}
