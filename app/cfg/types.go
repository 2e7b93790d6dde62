package cfg

import "time"

type Cfg struct {
	// Telegram
	BotToken        string
	AdminIDs        []int64
	SourceChannelID int64
	TargetChannelID int64
	ChannelUsername string
	ChannelLink     string

	// Metadata providers
	TMDBAPIKey string
	OMDbAPIKey string
	APITimeout time.Duration
	UserAgent  string

	// Relay
	DBPath          string
	DefaultInterval int64
	FirstRunDelay   time.Duration
	WorkerCount     int
	SeedFile        string

	// HTTP API
	Port         string
	APIAccessKey string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
