package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/recolor/pkg/bundle"
	"github.com/matzehuels/recolor/pkg/cache"
	"github.com/matzehuels/recolor/pkg/store"
)

// env bundles the backends a command works against.
type env struct {
	cfg   *Config
	cache cache.Cache
	store store.Store
	gen   *bundle.Generator
}

// Close releases the backends.
func (e *env) Close() {
	_ = e.cache.Close()
	_ = e.store.Close()
}

// openEnv loads the configuration and connects the configured backends.
// noCache swaps the cache for a NullCache.
func (c *CLI) openEnv(ctx context.Context, noCache bool) (*env, error) {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}

	ch, err := openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	if err := os.MkdirAll(cfg.AssetsDir, 0755); err != nil {
		_ = ch.Close()
		_ = st.Close()
		return nil, fmt.Errorf("create assets dir: %w", err)
	}

	return &env{
		cfg:   cfg,
		cache: ch,
		store: st,
		gen:   bundle.NewGenerator(ch, newKeyer(cfg), st, cfg.AssetsDir, c.Logger),
	}, nil
}

// newKeyer returns the cache keyer for cfg, scoped to its cache namespace.
func newKeyer(cfg *Config) cache.Keyer {
	if cfg.CacheNamespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.CacheNamespace+":")
}

func openCache(ctx context.Context, cfg *Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.CacheBackend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisURL, cfg.RedisPrefix)
	default:
		return cache.NewFileCache(cfg.CacheDir)
	}
}

func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	if cfg.StoreBackend == BackendMongo {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	}
	return store.NewFileStore(cfg.StoreDir)
}

// themeDir resolves a theme argument: an existing directory is used as is,
// anything else is looked up under the configured themes directory.
func themeDir(cfg *Config, arg string) string {
	if st, err := os.Stat(arg); err == nil && st.IsDir() {
		return arg
	}
	return filepath.Join(cfg.ThemesDir, arg)
}
