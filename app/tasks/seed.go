package tasks

import (
	"fmt"
	"log/slog"

	"github.com/lysyi3m/media-relay/app/cfg"
	"github.com/lysyi3m/media-relay/app/database"
)

// ApplySeed fills settings, admins and filters from seed that were never
// stored, then marks the seed as applied. Once marked, the seed is ignored so
// values removed at runtime stay removed.
func (c *Controls) ApplySeed(admins database.AdminRepository, seed *cfg.Seed) error {
	if seed == nil || seed.IsEmpty() {
		return nil
	}

	applied, err := c.settings.GetBool(KeySeedApplied, false)
	if err != nil {
		return err
	}
	if applied {
		slog.Debug("Seed already applied, skipping")
		return nil
	}

	stored, err := admins.ListAdmins()
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		for _, id := range seed.Admins {
			if err := admins.AddAdmin(id); err != nil {
				return err
			}
		}
	}

	filters, err := c.filters.ListFilters()
	if err != nil {
		return fmt.Errorf("failed to list filters: %w", err)
	}
	if len(filters) == 0 {
		for _, keyword := range seed.Filters {
			if err := c.filters.AddFilter(keyword); err != nil {
				return err
			}
		}
	}

	for key, value := range map[string]string{
		KeyCustomTag:       seed.CustomTag,
		KeyChannelUsername: seed.ChannelUsername,
		KeyChannelLink:     seed.ChannelLink,
	} {
		if err := c.setIfUnset(key, value); err != nil {
			return err
		}
	}

	tags, err := c.ExtraTags()
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		for _, tag := range seed.ExtraTags {
			if _, err := c.AddExtraTag(tag); err != nil {
				return err
			}
		}
	}

	if err := c.settings.Set(KeySeedApplied, "true"); err != nil {
		return err
	}

	slog.Info("Seed applied", "admins", len(seed.Admins), "filters", len(seed.Filters), "extra_tags", len(seed.ExtraTags))
	return nil
}

func (c *Controls) setIfUnset(key, value string) error {
	if value == "" {
		return nil
	}
	current, err := c.settings.Get(key)
	if err != nil {
		return err
	}
	if current != "" {
		return nil
	}
	return c.settings.Set(key, value)
}
