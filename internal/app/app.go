// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tapedeck-audio/tapedeck/internal/adapter/audio/mock"
	"github.com/tapedeck-audio/tapedeck/internal/adapter/audio/pipeline"
	"github.com/tapedeck-audio/tapedeck/internal/adapter/eventbus"
	"github.com/tapedeck-audio/tapedeck/internal/adapter/repository/memory"
	"github.com/tapedeck-audio/tapedeck/internal/adapter/ui/tui"
	"github.com/tapedeck-audio/tapedeck/internal/logger"
	"github.com/tapedeck-audio/tapedeck/internal/ports"
	"github.com/tapedeck-audio/tapedeck/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
type Application struct {
	logger *slog.Logger

	eventBus    ports.EventBus
	audioEngine ports.AudioEngine
	libraryRepo ports.LibraryRepository

	playbackService *service.PlaybackService
	libraryService  *service.LibraryService

	program *tea.Program

	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	// MusicDir is the directory scanned for audio files at startup.
	// Empty skips the initial scan.
	MusicDir string

	// SampleRate is the pipeline output sample rate.
	SampleRate int

	// UseMockAudio determines whether to use a mock audio engine (for testing)
	UseMockAudio bool

	// LogLevel controls logging verbosity
	LogLevel slog.Level
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		SampleRate:   pipeline.OutputRate,
		UseMockAudio: false,
		LogLevel:     loggerCfg.Level,
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(config Config) (*Application, error) {
	app := &Application{}

	loggerCfg := logger.Config{
		Level:  config.LogLevel,
		Format: "text",
	}
	app.logger = logger.NewLogger(loggerCfg)
	app.logger.Info("initializing application",
		slog.String("version", GetVersionInfo().FullString()))

	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus

	if config.UseMockAudio {
		app.audioEngine = mock.NewEngine()
	} else {
		engine, err := pipeline.New(
			app.logger.With(slog.String("engine", "pipeline")),
			pipeline.Config{
				SampleRate:      config.SampleRate,
				NegotiateDevice: true,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audio engine: %w", err)
		}
		app.audioEngine = engine
	}

	app.libraryRepo = memory.NewLibraryRepository()

	app.playbackService = service.NewPlaybackService(
		app.logger.With(slog.String("service", "playback")),
		app.audioEngine,
		app.eventBus,
	)

	app.libraryService = service.NewLibraryService(
		app.logger.With(slog.String("service", "library")),
		app.libraryRepo,
		app.eventBus,
	)

	if config.MusicDir != "" {
		if err := app.libraryService.Scan(context.Background(), config.MusicDir); err != nil {
			// Non-fatal - the TUI can rescan another directory
			app.logger.Warn("initial scan failed",
				slog.String("dir", config.MusicDir), slog.Any("error", err))
		}
	}

	model := tui.NewModel(
		app.logger.With(slog.String("component", "tui")),
		app.playbackService,
		app.libraryService,
	)
	app.program = tea.NewProgram(model, tea.WithAltScreen())

	return app, nil
}

// Run starts the TUI event loop and blocks until the user quits.
func (a *Application) Run() error {
	a.logger.Info("tapedeck started")

	if _, err := a.program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the application. Safe to call more than
// once; only the first call tears anything down.
func (a *Application) Shutdown() error {
	var err error
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if serr := a.playbackService.Shutdown(); serr != nil {
			a.logger.Warn("failed to shutdown playback service", slog.Any("error", serr))
			err = serr
		}

		if berr := a.eventBus.Close(); berr != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", berr))
			if err == nil {
				err = berr
			}
		}

		a.logger.Info("shutdown complete")
	})
	return err
}

// GetServices returns the playback and library services for testing.
func (a *Application) GetServices() (*service.PlaybackService, *service.LibraryService) {
	return a.playbackService, a.libraryService
}

// GetEventBus returns the event bus for testing.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}
