// Package store persists the active color configuration of each theme.
//
// A [ThemeConfig] records the palette a theme was recolored with and where
// its generated bundle lives, so that pages can reference the recolored
// stylesheets instead of the stock ones. A theme without a stored
// configuration uses its stock assets.
//
// Two backends implement [Store]:
//   - [FileStore]: JSON files under ~/.config/recolor/themes/, for the CLI
//   - [MongoStore]: a MongoDB collection, shared by server replicas
package store

import (
	"context"
	"time"

	"github.com/matzehuels/recolor/pkg/palette"
)

// ThemeConfig is the active color configuration of a theme.
type ThemeConfig struct {
	// Theme is the theme name.
	Theme string `json:"theme"`

	// Palette is the full palette the bundle was generated with.
	Palette *palette.Palette `json:"palette"`

	// Scheme names the predefined scheme the palette equals, if any.
	Scheme string `json:"scheme,omitempty"`

	// BundleID identifies the generated bundle.
	BundleID string `json:"bundle_id"`

	// Key is the cache key of the bundle.
	Key string `json:"key"`

	// Dir is the bundle's output directory.
	Dir string `json:"dir"`

	// Generation is the library_info tag generation the bundle was built at.
	Generation int64 `json:"generation"`

	// Dirs lists every bundle directory built for Palette at Generation,
	// one per set of cache contexts. It includes Dir.
	Dirs []string `json:"dirs,omitempty"`

	// Stylesheets are the generated stylesheets, relative to Dir, in the
	// order of the theme descriptor.
	Stylesheets []string `json:"stylesheets"`

	// Files are all generated files, relative to Dir.
	Files []string `json:"files"`

	// Screenshot is the preview image relative to Dir, if the theme has one.
	Screenshot string `json:"screenshot,omitempty"`

	// UpdatedAt is when the configuration was stored.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the interface for theme configuration backends.
type Store interface {
	// Get retrieves the configuration of a theme.
	// Returns nil, nil if the theme has no stored configuration.
	Get(ctx context.Context, theme string) (*ThemeConfig, error)

	// Set stores a configuration, replacing any previous one.
	Set(ctx context.Context, cfg *ThemeConfig) error

	// Delete removes a theme's configuration. Deleting a missing
	// configuration is not an error.
	Delete(ctx context.Context, theme string) error

	// List returns every stored configuration ordered by theme name.
	List(ctx context.Context) ([]*ThemeConfig, error)

	// Close releases backend resources.
	Close() error
}
