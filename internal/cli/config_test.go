package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/recolor/pkg/cache"
)

// isolate points every XDG directory and the working directory at temp
// dirs so no real config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Chdir(root)
	return root
}

func TestLoadConfigDefaults(t *testing.T) {
	root := isolate(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheBackend != BackendFile || cfg.StoreBackend != BackendFile {
		t.Errorf("backends = %s/%s", cfg.CacheBackend, cfg.StoreBackend)
	}
	if want := filepath.Join(root, "cache", "recolor"); cfg.CacheDir != want {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, want)
	}
	if want := filepath.Join(root, "data", "recolor", "assets"); cfg.AssetsDir != want {
		t.Errorf("AssetsDir = %q, want %q", cfg.AssetsDir, want)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadConfigEnv(t *testing.T) {
	isolate(t)
	t.Setenv("RECOLOR_CACHE_BACKEND", "redis")
	t.Setenv("RECOLOR_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("RECOLOR_SERVER_PORT", "9090")
	t.Setenv("RECOLOR_THEMES_DIR", "/srv/themes")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheBackend != BackendRedis || cfg.RedisURL != "redis://cache:6379/2" {
		t.Errorf("cache = %s %s", cfg.CacheBackend, cfg.RedisURL)
	}
	if cfg.ServerPort != 9090 || cfg.ThemesDir != "/srv/themes" {
		t.Errorf("port = %d, themes = %q", cfg.ServerPort, cfg.ThemesDir)
	}
}

func TestLoadConfigFile(t *testing.T) {
	root := isolate(t)
	data := "themes_dir: site/themes\nstore_backend: mongo\nmongo_database: sites\nserver_port: 7000\n"
	if err := os.WriteFile(filepath.Join(root, "recolor.yaml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ThemesDir != "site/themes" || cfg.StoreBackend != BackendMongo || cfg.MongoDatabase != "sites" || cfg.ServerPort != 7000 {
		t.Errorf("config = %+v", cfg)
	}

	// Environment wins over the file.
	t.Setenv("RECOLOR_SERVER_PORT", "7001")
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerPort != 7001 {
		t.Errorf("ServerPort = %d, want 7001", cfg.ServerPort)
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	root := isolate(t)
	path := filepath.Join(root, "custom.toml")
	if err := os.WriteFile(path, []byte("cache_backend = \"none\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheBackend != BackendNone {
		t.Errorf("CacheBackend = %q", cfg.CacheBackend)
	}

	if _, err := LoadConfig(filepath.Join(root, "missing.yaml")); err == nil {
		t.Error("LoadConfig() with a missing explicit file succeeded")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		env, value, want string
	}{
		{"RECOLOR_CACHE_BACKEND", "memcached", "cache backend"},
		{"RECOLOR_STORE_BACKEND", "sqlite", "store backend"},
		{"RECOLOR_SERVER_PORT", "70000", "port"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.value)
			_, err := LoadConfig("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestCacheNamespace(t *testing.T) {
	isolate(t)
	t.Setenv("RECOLOR_CACHE_NAMESPACE", "site-a")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheNamespace != "site-a" {
		t.Fatalf("CacheNamespace = %q", cfg.CacheNamespace)
	}
	if got := newKeyer(cfg).TagKey(cache.TagLibraryInfo); got != "site-a:tag:library_info" {
		t.Errorf("TagKey() = %q", got)
	}
	if got := newKeyer(&Config{}).TagKey(cache.TagLibraryInfo); got != "tag:library_info" {
		t.Errorf("unscoped TagKey() = %q", got)
	}

	// Two sites sharing a file cache invalidate independently.
	ctx := context.Background()
	shared, err := cache.NewFileCache(cfg.CacheDir)
	if err != nil {
		t.Fatal(err)
	}
	siteA := cache.NewTags(shared, newKeyer(cfg))
	siteB := cache.NewTags(shared, newKeyer(&Config{CacheNamespace: "site-b"}))
	if err := siteA.Invalidate(ctx, cache.TagLibraryInfo); err != nil {
		t.Fatal(err)
	}
	if gen, _ := siteA.Generation(ctx, cache.TagLibraryInfo); gen != 1 {
		t.Errorf("site-a generation = %d, want 1", gen)
	}
	if gen, _ := siteB.Generation(ctx, cache.TagLibraryInfo); gen != 0 {
		t.Errorf("site-b generation = %d, want 0", gen)
	}
}
