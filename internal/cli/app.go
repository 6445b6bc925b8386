// Package cli provides CLI commands using Bubble Tea TUI.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/visited/internal/cli/styles"
	"github.com/bnema/visited/internal/config"
	"github.com/bnema/visited/internal/history"
	"github.com/bnema/visited/internal/logging"
)

// App holds CLI dependencies: loaded configuration, the profile's history
// manager and the shared logger context.
type App struct {
	Config  *config.Config
	Theme   *styles.Theme
	History *history.Manager

	configMgr *config.Manager
	ctx       context.Context
}

// NewApp loads configuration, opens the profile's history database and wires
// config-file watching into the running manager.
func NewApp(profile string) (*App, error) {
	configMgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("initialize config: %w", err)
	}
	if err := configMgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := configMgr.Get()

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("VISITED_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.NewFromConfigValues(logLevel, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	dataDir, err := config.GetDataDir()
	if err != nil {
		return nil, fmt.Errorf("get data dir: %w", err)
	}

	manager, err := history.OpenProfile(ctx, dataDir, profile, cfg.History.ManagerConfig())
	if err != nil {
		return nil, fmt.Errorf("open profile %q: %w", profile, err)
	}

	// Edits to the config file reach the running manager without a restart.
	configMgr.OnConfigChange(func(updated *config.Config) {
		manager.UpdateConfig(updated.History.Update())
	})
	if err := configMgr.Watch(); err != nil {
		logger.Warn().Err(err).Msg("config watching unavailable")
	}

	return &App{
		Config:    cfg,
		Theme:     styles.NewTheme(),
		History:   manager,
		configMgr: configMgr,
		ctx:       ctx,
	}, nil
}

// Ctx returns the app context carrying the logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close shuts down the history manager, running its final cleanup pass.
func (a *App) Close() error {
	a.History.Shutdown(a.ctx)
	return nil
}
