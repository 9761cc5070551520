package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tayloree/petits-plats/internal/api"
	"github.com/tayloree/petits-plats/internal/browse"
	"github.com/tayloree/petits-plats/internal/catalog"
	"github.com/tayloree/petits-plats/internal/config"
	"github.com/tayloree/petits-plats/internal/logging"
	"github.com/tayloree/petits-plats/internal/recipe"
	"github.com/tayloree/petits-plats/internal/state"
)

// app wires configuration, logging and the recipe catalog for one command run.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	catalog *catalog.Catalog
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, invalidArgsError(
			err.Error(),
			"plats --log-level debug coco",
			"plats --config ./plats.yaml",
		)
	}

	log, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, invalidArgsError(err.Error(), "plats --log-level warn")
	}
	log.Debug("configuration loaded",
		zap.String("source", api.SourceLabel(cfg.Source)),
		zap.String("images", cfg.ImageBase),
		zap.Duration("cacheTTL", cfg.CacheTTL),
		zap.String("file", cfg.File),
	)

	return &app{
		cfg: cfg,
		log: log,
		catalog: catalog.New(api.NewClient(log.Named("api")), catalog.Options{
			ImageBase:       cfg.ImageBase,
			TTL:             cfg.CacheTTL,
			CleanupInterval: cfg.CleanupInterval,
			Logger:          log.Named("catalog"),
		}),
	}, nil
}

func (a *app) Close() {
	a.catalog.Close()
	_ = a.log.Sync()
}

func (a *app) loadRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	recipes, err := a.catalog.Recipes(ctx, a.cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	return recipes, nil
}

// openSession loads the catalog and starts a browse session with query and
// selections already applied.
func (a *app) openSession(ctx context.Context, query string, selections []selection, renderer browse.Renderer) (*browse.Session, error) {
	recipes, err := a.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return a.newSession(recipes, query, selections, renderer), nil
}

func (a *app) newSession(recipes []recipe.Recipe, query string, selections []selection, renderer browse.Renderer) *browse.Session {
	store := state.NewStore(a.log.Named("state"))
	applySelections(store, query, selections)
	return browse.New(recipes, store, renderer, a.log.Named("browse"))
}
