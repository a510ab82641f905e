// Package app wires storage, services and the explorer from configuration.
// Both the server and the CLI start here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/hrl-explorer/internal/catalog"
	"github.com/rpggio/hrl-explorer/internal/config"
	"github.com/rpggio/hrl-explorer/internal/domain/activity"
	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"github.com/rpggio/hrl-explorer/internal/explore"
	"github.com/rpggio/hrl-explorer/internal/geo"
	"github.com/rpggio/hrl-explorer/internal/sqlite"
)

// App holds the opened database and the domain services over it.
type App struct {
	Config   config.Config
	DB       *sqlite.DB
	Projects *project.Service
	Activity *activity.Service
	Logger   *slog.Logger
}

// Open prepares the database path, connects, migrates, and builds services.
func Open(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &App{
		Config:   cfg,
		DB:       db,
		Projects: project.NewService(sqlite.NewProjectRepository(db), logger),
		Activity: activity.NewService(sqlite.NewActivityRepository(db), logger),
		Logger:   logger,
	}, nil
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// ImportCatalog loads a catalog file and replaces the stored projects with it.
// Geometry problems are logged and kept; structural problems abort.
func (a *App) ImportCatalog(ctx context.Context, path string) (*project.ImportResult, error) {
	loaded, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, issue := range loaded.Issues {
		a.Logger.Warn("catalog entry has invalid geometry", "index", issue.Index, "project_id", issue.ID, "error", issue.Err)
	}

	result, err := a.Projects.Import(ctx, loaded.Projects)
	if err != nil {
		return nil, err
	}
	a.Activity.Record(ctx, activity.TypeCatalogImported, "", "", fmt.Sprintf("imported %d projects from %s", result.Imported, filepath.Base(path)))
	return result, nil
}

// Snapshot builds an explorer store from the stored catalog.
func (a *App) Snapshot(ctx context.Context) (*explore.Store, error) {
	projects, err := a.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	return explore.NewStore(projects)
}

// NewExplorer builds a session manager over the stored catalog.
func (a *App) NewExplorer(ctx context.Context) (*explore.Manager, error) {
	store, err := a.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return explore.NewManager(store, SessionOptions(a.Config.Map), a.Logger), nil
}

// SessionOptions applies the map configuration to the default explore page.
func SessionOptions(cfg config.MapConfig) explore.SessionOptions {
	opts := explore.DefaultSessionOptions()
	opts.Map.Size = geo.Size{Width: cfg.Width, Height: cfg.Height}
	opts.Viewport.FocusZoom = cfg.FocusZoom
	opts.Viewport.Padding = geo.UniformPadding(cfg.FitPadding)
	return opts
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
