package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Cache and store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// envPrefix prefixes environment overrides: RECOLOR_ASSETS_DIR etc.
const envPrefix = "RECOLOR"

// Config holds the settings shared by all commands.
type Config struct {
	ThemesDir string `mapstructure:"themes_dir"`
	AssetsDir string `mapstructure:"assets_dir"`

	CacheBackend string `mapstructure:"cache_backend"`
	CacheDir     string `mapstructure:"cache_dir"`
	RedisURL     string `mapstructure:"redis_url"`
	RedisPrefix  string `mapstructure:"redis_prefix"`

	// CacheNamespace scopes cache keys and tag generations, so several
	// sites can share one cache without invalidating each other.
	CacheNamespace string `mapstructure:"cache_namespace"`

	StoreBackend  string `mapstructure:"store_backend"`
	StoreDir      string `mapstructure:"store_dir"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`

	ServerHost string `mapstructure:"server_host"`
	ServerPort int    `mapstructure:"server_port"`
	ThemesURL  string `mapstructure:"themes_url"`
}

// Addr returns the server listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// LoadConfig reads configuration from an optional file and the environment.
// An empty path searches for recolor.{yaml,toml,json} in the working
// directory and the user config directory.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	cacheHome, err := cacheDir()
	if err != nil {
		return nil, err
	}
	dataHome, err := dataDir()
	if err != nil {
		return nil, err
	}

	v.SetDefault("themes_dir", "themes")
	v.SetDefault("assets_dir", filepath.Join(dataHome, "assets"))
	v.SetDefault("cache_backend", BackendFile)
	v.SetDefault("cache_dir", cacheHome)
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("redis_prefix", "")
	v.SetDefault("cache_namespace", "")
	v.SetDefault("store_backend", BackendFile)
	v.SetDefault("store_dir", "")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "")
	v.SetDefault("server_host", "")
	v.SetDefault("server_port", 8080)
	v.SetDefault("themes_url", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.CacheBackend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (want file, redis or none)", c.CacheBackend)
	}
	switch c.StoreBackend {
	case BackendFile, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q (want file or mongo)", c.StoreBackend)
	}
	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server port %d", c.ServerPort)
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/recolor/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// dataDir returns the data directory (~/.local/share/recolor/).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// configDir returns the config directory (~/.config/recolor/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
