package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Telegram configuration
	BotToken        string  `long:"bot-token" env:"BOT_TOKEN" description:"Telegram bot token (required)" required:"true"`
	AdminIDs        []int64 `long:"admin-id" env:"ADMIN_IDS" env-delim:"," description:"Telegram user ids allowed to run admin commands"`
	SourceChannelID int64   `long:"source-channel" env:"SOURCE_CHANNEL_ID" description:"Default source channel id"`
	TargetChannelID int64   `long:"target-channel" env:"TARGET_CHANNEL_ID" description:"Default target channel id"`
	ChannelUsername string  `long:"channel-username" env:"CHANNEL_USERNAME" description:"Channel name shown in the caption footer"`
	ChannelLink     string  `long:"channel-link" env:"CHANNEL_LINK" description:"Channel link shown in the caption footer"`

	// Metadata providers
	TMDBAPIKey string `long:"tmdb-api-key" env:"TMDB_API_KEY" description:"TMDB API key (optional)"`
	OMDbAPIKey string `long:"omdb-api-key" env:"OMDB_API_KEY" description:"OMDb API key (optional)"`
	APITimeout int    `long:"api-timeout" env:"API_TIMEOUT" default:"10" description:"Metadata request timeout in seconds"`
	UserAgent  string `long:"user-agent" env:"USER_AGENT" default:"Media Relay/1.0" description:"User agent string for HTTP requests"`

	// Relay configuration
	DBPath          string `long:"db-path" env:"DB_PATH" default:"bot_state.db" description:"SQLite database file"`
	DefaultInterval int64  `long:"default-interval" env:"DEFAULT_INTERVAL" default:"600" description:"Posting interval in seconds until one is set"`
	FirstRunDelay   int    `long:"first-run-delay" env:"FIRST_RUN_DELAY" default:"10" description:"Delay before the first scheduled post in seconds"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for live posts"`
	SeedFile        string `long:"seed-file" env:"SEED_FILE" description:"YAML file with initial admins, filters and tags (optional)"`

	// HTTP API
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads .env (if present), the environment and args. It returns nil, nil
// when help was requested.
func Load(args []string) (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		BotToken:        raw.BotToken,
		AdminIDs:        raw.AdminIDs,
		SourceChannelID: raw.SourceChannelID,
		TargetChannelID: raw.TargetChannelID,
		ChannelUsername: raw.ChannelUsername,
		ChannelLink:     raw.ChannelLink,
		TMDBAPIKey:      raw.TMDBAPIKey,
		OMDbAPIKey:      raw.OMDbAPIKey,
		APITimeout:      time.Duration(raw.APITimeout) * time.Second,
		UserAgent:       raw.UserAgent,
		DBPath:          raw.DBPath,
		DefaultInterval: raw.DefaultInterval,
		FirstRunDelay:   time.Duration(raw.FirstRunDelay) * time.Second,
		WorkerCount:     raw.WorkerCount,
		SeedFile:        raw.SeedFile,
		Port:            raw.Port,
		APIAccessKey:    raw.APIAccessKey,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if cfg.DefaultInterval <= 0 {
		return nil, fmt.Errorf("default interval must be positive, got %d", cfg.DefaultInterval)
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = 10 * time.Second
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
