package cfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed holds initial relay settings. It is applied on the first start that
// has one; later starts leave stored state alone, even values an admin cleared.
type Seed struct {
	Admins          []int64  `yaml:"admins"`
	Filters         []string `yaml:"filters"`
	CustomTag       string   `yaml:"custom_tag"`
	ExtraTags       []string `yaml:"extra_tags"`
	ChannelUsername string   `yaml:"channel_username"`
	ChannelLink     string   `yaml:"channel_link"`
}

// LoadSeed reads a seed file. An empty path yields an empty seed.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return &Seed{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for _, id := range seed.Admins {
		if id == 0 {
			return nil, fmt.Errorf("invalid admin id 0 in seed file %s", path)
		}
	}

	return &seed, nil
}

func (s *Seed) IsEmpty() bool {
	return len(s.Admins) == 0 && len(s.Filters) == 0 && len(s.ExtraTags) == 0 &&
		s.CustomTag == "" && s.ChannelUsername == "" && s.ChannelLink == ""
}
