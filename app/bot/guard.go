package bot

import (
	"log/slog"

	"github.com/lysyi3m/media-relay/app/database"
)

const deniedText = "⛔ Admin only."

// Guard decides who may run admin commands: the ids from configuration plus
// anyone added at runtime.
type Guard struct {
	ids        []int64
	configured map[int64]bool
	admins     database.AdminRepository
}

func NewGuard(adminIDs []int64, admins database.AdminRepository) *Guard {
	configured := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		configured[id] = true
	}
	return &Guard{ids: adminIDs, configured: configured, admins: admins}
}

func (g *Guard) IsAdmin(userID int64) bool {
	if userID == 0 {
		return false
	}
	if g.configured[userID] {
		return true
	}

	stored, err := g.admins.ListAdmins()
	if err != nil {
		slog.Error("Failed to list admins", "user_id", userID, "error", err)
		return false
	}
	for _, id := range stored {
		if id == userID {
			return true
		}
	}
	return false
}

// All returns configured and stored admins without duplicates, configured first.
func (g *Guard) All() ([]int64, error) {
	stored, err := g.admins.ListAdmins()
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var all []int64
	for _, id := range append(append([]int64{}, g.ids...), stored...) {
		if !seen[id] {
			seen[id] = true
			all = append(all, id)
		}
	}
	return all, nil
}
