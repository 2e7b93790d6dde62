package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/lysyi3m/media-relay/app/api"
	"github.com/lysyi3m/media-relay/app/bot"
	"github.com/lysyi3m/media-relay/app/cfg"
	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/metadata"
	"github.com/lysyi3m/media-relay/app/platform"
	"github.com/lysyi3m/media-relay/app/publisher"
	"github.com/lysyi3m/media-relay/app/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Media relay failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := cfg.Load(os.Args[1:])
	if err != nil {
		return err
	}
	if config == nil {
		return nil
	}

	setupLogger(config.Debug)

	slog.Info("Starting media relay", "version", config.Version, "db_path", config.DBPath)

	db, err := database.NewConnection(config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	store := database.NewStore(db)

	controls := tasks.NewControls(store, store, tasks.Defaults{
		SourceChat:      config.SourceChannelID,
		TargetChat:      config.TargetChannelID,
		IntervalSeconds: config.DefaultInterval,
		ChannelName:     config.ChannelUsername,
		ChannelLink:     config.ChannelLink,
	})

	seed, err := cfg.LoadSeed(config.SeedFile)
	if err != nil {
		return err
	}
	if err := controls.ApplySeed(store, seed); err != nil {
		return fmt.Errorf("failed to apply seed: %w", err)
	}

	tgBot, err := gotgbot.NewBot(config.BotToken, &gotgbot.BotOpts{
		BotClient: &gotgbot.BaseBotClient{
			Client: http.Client{},
			DefaultRequestOpts: &gotgbot.RequestOpts{
				Timeout: 30 * time.Second,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	slog.Info("Bot authorized", "username", tgBot.User.Username, "id", tgBot.User.Id)

	cascade := metadata.NewCascade(metadata.Options{
		Timeout:   config.APITimeout,
		UserAgent: config.UserAgent,
		TMDBKey:   config.TMDBAPIKey,
		OMDbKey:   config.OMDbAPIKey,
	})
	if config.TMDBAPIKey == "" {
		slog.Info("TMDB_API_KEY not set, TMDB lookups disabled")
	}
	if config.OMDbAPIKey == "" {
		slog.Info("OMDB_API_KEY not set, OMDb lookups disabled")
	}

	pub := publisher.New(platform.NewTelegram(tgBot), cascade, store)
	poster := tasks.NewPoster(controls, store, pub)

	scheduler := tasks.NewScheduler(poster, controls, config.FirstRunDelay, config.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	relayBot := bot.New(tgBot, bot.Deps{
		Controls:  controls,
		Posts:     store,
		Admins:    store,
		Scheduler: scheduler,
		Publisher: pub,
		AdminIDs:  config.AdminIDs,
	})
	if err := relayBot.Start(); err != nil {
		return err
	}
	defer relayBot.Stop()

	handler := api.NewHandler(controls, store, scheduler, config.Version)
	httpServer := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      api.NewServer(handler, config.APIAccessKey),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", config.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	state, err := controls.Load()
	if err != nil {
		return err
	}
	slog.Info("Media relay started",
		"source", state.SourceChat,
		"target", state.TargetChat,
		"interval", bot.FormatInterval(state.IntervalSeconds),
		"paused", state.Paused,
		"admins", len(config.AdminIDs))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	return nil
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
