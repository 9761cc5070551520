// Package catalog loads the recipe list once per source and keeps the
// prepared records in a TTL cache.
package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tayloree/petits-plats/internal/api"
	"github.com/tayloree/petits-plats/internal/cache"
	"github.com/tayloree/petits-plats/internal/recipe"
)

// Fetcher returns the raw recipe dataset for a source.
type Fetcher interface {
	FetchRecipes(ctx context.Context, source string) ([]api.RawRecipe, error)
}

// Catalog is the single entry point for obtaining prepared recipes.
type Catalog struct {
	fetcher   Fetcher
	cache     *cache.Cache[[]recipe.Recipe]
	flight    singleflight.Group
	imageBase string
	log       *zap.Logger
}

// Options configures a Catalog.
type Options struct {
	ImageBase       string
	TTL             time.Duration
	CleanupInterval time.Duration
	Logger          *zap.Logger
}

// New creates a catalog backed by fetcher.
func New(fetcher Fetcher, opts Options) *Catalog {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		fetcher: fetcher,
		cache: cache.New[[]recipe.Recipe](opts.TTL,
			cache.WithLogger(log.Named("cache")),
			cache.WithCleanupInterval(opts.CleanupInterval),
		),
		imageBase: opts.ImageBase,
		log:       log,
	}
}

// Recipes returns the prepared recipes for source, fetching at most once per
// cache lifetime. Concurrent callers for the same source share one fetch.
func (c *Catalog) Recipes(ctx context.Context, source string) ([]recipe.Recipe, error) {
	key := cacheKey(source)
	v, err, shared := c.flight.Do(key, func() (any, error) {
		return c.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]recipe.Recipe, error) {
			raws, err := c.fetcher.FetchRecipes(ctx, source)
			if err != nil {
				return nil, err
			}
			recipes := recipe.Prepare(raws, c.imageBase)
			c.log.Debug("recipes prepared",
				zap.String("key", key),
				zap.Int("count", len(recipes)),
			)
			return recipes, nil
		})
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug("joined in-flight load", zap.String("key", key))
	}
	return v.([]recipe.Recipe), nil
}

// Refresh drops the cached list for source.
func (c *Catalog) Refresh(source string) {
	c.cache.Invalidate(cacheKey(source))
}

// Close stops the cache janitor.
func (c *Catalog) Close() {
	c.cache.Close()
}

func cacheKey(source string) string {
	return "recipes:" + api.SourceLabel(source)
}
