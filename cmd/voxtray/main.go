package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/voxtray/voxtray/internal/app"
	"github.com/voxtray/voxtray/internal/audio"
	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/hotkey"
	"github.com/voxtray/voxtray/internal/inject"
	"github.com/voxtray/voxtray/internal/logging"
	"github.com/voxtray/voxtray/internal/permissions"
	"github.com/voxtray/voxtray/internal/recorder"
	"github.com/voxtray/voxtray/internal/transcribe"
	"github.com/voxtray/voxtray/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	// macOS requires explicit microphone + accessibility approval before capture or hotkeys work
	if err := permissions.Ensure(log); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize audio capture backend
	backend, err := audio.NewBackend(log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer backend.Close()

	rec := recorder.New(backend, cfg, log)

	// Initialize transcription provider
	transcriber, err := transcribe.New(cfg.Transcribe, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize transcription")
	}

	// Initialize text injector
	injector := inject.New(cfg.Inject, log)

	// Initialize hotkey manager
	hkManager, err := hotkey.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize hotkeys")
	}
	defer hkManager.Close()

	// Create tray UI first (we'll pass it to app)
	trayUI := tray.New(nil, cfg, Version, Commit, log) // App reference set below

	// Create app with tray as status updater
	application := app.New(app.Config{
		Recorder:      rec,
		Transcriber:   transcriber,
		Injector:      injector,
		Config:        cfg,
		Logger:        log,
		StatusUpdater: trayUI,
	})

	// Set app reference in tray
	trayUI.SetApp(application)

	// Register global hotkey
	if err := hkManager.Register(cfg.PlatformHotkey(), application.OnHotkey); err != nil {
		log.Fatal().Err(err).Msg("Failed to register hotkey")
	}

	log.Info().Str("version", Version).Msg("Voxtray starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		if err := application.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
