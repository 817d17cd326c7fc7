// Package app wires the engine's components together and manages their
// lifecycle. It is the single place where concrete adapters are chosen.
package app

import (
	"log/slog"

	audiobeep "github.com/radarwhisper/radarwhisper/internal/adapter/audio/beep"
	audiomock "github.com/radarwhisper/radarwhisper/internal/adapter/audio/mock"
	"github.com/radarwhisper/radarwhisper/internal/adapter/eventbus"
	"github.com/radarwhisper/radarwhisper/internal/adapter/metadata/tagreader"
	repofile "github.com/radarwhisper/radarwhisper/internal/adapter/repository/file"
	"github.com/radarwhisper/radarwhisper/internal/config"
	"github.com/radarwhisper/radarwhisper/internal/logger"
	"github.com/radarwhisper/radarwhisper/internal/ports"
	"github.com/radarwhisper/radarwhisper/internal/service"
)

// Application holds the wired component graph.
type Application struct {
	logger *slog.Logger
	config *config.Config

	bus    ports.EventBus
	engine ports.AudioEngine
	repo   ports.PlaylistRepository

	playlists *service.PlaylistService
	player    *service.PlayerService
}

// New builds the application from the given configuration.
func New(cfg *config.Config) (*Application, error) {
	log := logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})

	bus := eventbus.NewSyncBus(log.With(slog.String("component", "eventbus")))

	var engine ports.AudioEngine
	if cfg.Audio.Mock {
		engine = audiomock.NewEngine(log.With(slog.String("engine", "mock")), bus)
	} else {
		engine = audiobeep.NewEngine(log.With(slog.String("engine", "beep")), bus, cfg.Buffer())
	}

	repo, err := repofile.NewPlaylistRepository(cfg.Library.PlaylistDir, log.With(slog.String("component", "repository")))
	if err != nil {
		return nil, err
	}

	metadata := tagreader.NewProvider(log.With(slog.String("component", "tagreader")))

	playlists := service.NewPlaylistService(repo, metadata, bus, log.With(slog.String("service", "playlist")))
	player := service.NewPlayerService(log.With(slog.String("service", "player")), engine, playlists, bus)

	app := &Application{
		logger:    log,
		config:    cfg,
		bus:       bus,
		engine:    engine,
		repo:      repo,
		playlists: playlists,
		player:    player,
	}

	if err := app.restoreState(); err != nil {
		return nil, err
	}
	return app, nil
}

// restoreState loads the playlist library and applies the configured
// playback settings.
func (a *Application) restoreState() error {
	if err := a.playlists.LoadLibrary(); err != nil {
		return err
	}

	a.playlists.SetShuffle(a.config.Playback.Shuffle)
	a.playlists.SetRepeatMode(a.config.RepeatMode())
	if err := a.player.SetVolume(a.config.Playback.Volume); err != nil {
		return err
	}

	a.logger.Info("application ready",
		slog.Int("playlists", len(a.playlists.Playlists())),
		slog.Bool("mock_audio", a.config.Audio.Mock))
	return nil
}

// Logger returns the root logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Bus returns the event bus.
func (a *Application) Bus() ports.EventBus { return a.bus }

// Playlists returns the playlist service.
func (a *Application) Playlists() *service.PlaylistService { return a.playlists }

// Player returns the player service.
func (a *Application) Player() *service.PlayerService { return a.player }

// Shutdown stops playback, persists the library and releases everything.
func (a *Application) Shutdown() error {
	a.logger.Info("shutting down")

	var firstErr error
	if err := a.player.Shutdown(); err != nil {
		firstErr = err
	}
	if err := a.playlists.SaveLibrary(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.engine.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.bus.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
