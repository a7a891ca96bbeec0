// Package bundle generates recolored asset bundles for themes.
//
// # Overview
//
// A bundle is a directory holding everything a theme needs to display a
// palette: its stylesheets rewritten to the new colors, its template image
// slices painted with them, and verbatim copies of neutral images the
// stylesheets reference. [Generator.Generate] produces bundles:
//
//	gen := bundle.NewGenerator(c, nil, st, assetsDir, logger)
//	b, err := gen.Generate(ctx, bundle.Request{
//	    ThemeDir: "themes/lagoon",
//	    Palette:  pal,
//	})
//
// A palette equal to the theme's default palette needs no bundle: the stock
// assets already show it, so the theme's stored configuration is removed and
// a bundle marked Default is returned.
//
// # Caching
//
// Bundles are cached under a key derived from the theme, the palette, the
// cache contexts and the generation of the library_info tag; see
// [cache.Keyer]. A cache hit whose files are all still on disk is returned
// without regenerating anything. [Generator.Invalidate] bumps tag
// generations, after which every bundle is rebuilt on its next request.
//
// Bundles are written to <assets>/<theme>-<first 8 hex digits of key>/, built
// in a temporary directory first so a half-written bundle is never visible.
// A theme keeps one bundle per set of cache contexts for its active palette;
// switching the palette or invalidating the tag removes the old ones.
package bundle

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/recolor/pkg/palette"
	"github.com/matzehuels/recolor/pkg/store"
)

// Request describes a bundle to generate.
type Request struct {
	// ThemeDir is the directory holding the theme descriptor.
	ThemeDir string

	// Palette holds the requested colors. Slots it leaves out keep the
	// default colors. Ignored when Scheme is set.
	Palette *palette.Palette

	// Scheme selects one of the theme's predefined schemes by name.
	Scheme string

	// Contexts are extra cache-context values the output depends on.
	Contexts []string

	// BaseURL is the public URL of the theme directory. Relative stylesheet
	// references to theme files that are not part of the bundle are
	// rewritten against it.
	BaseURL string

	// Refresh bypasses the cache lookup.
	Refresh bool
}

// Bundle is a generated set of recolored assets.
type Bundle struct {
	ID          string           `json:"id"`
	Theme       string           `json:"theme"`
	Key         string           `json:"key,omitempty"`
	Dir         string           `json:"dir,omitempty"`
	Palette     *palette.Palette `json:"palette"`
	Scheme      string           `json:"scheme,omitempty"`
	Stylesheets []string         `json:"stylesheets,omitempty"`
	Files       []string         `json:"files,omitempty"`
	Screenshot  string           `json:"screenshot,omitempty"`
	Generation  int64            `json:"generation"`
	CreatedAt   time.Time        `json:"created_at"`
	Stats       Stats            `json:"stats"`

	// Default marks a palette equal to the theme's default; no files were
	// generated and the stock assets apply.
	Default bool `json:"default,omitempty"`

	// Cached reports whether the bundle came from the cache.
	Cached bool `json:"-"`
}

// Stats summarizes a generation.
type Stats struct {
	// Color literal outcomes over all stylesheets.
	Exact   int `json:"exact"`
	Shifted int `json:"shifted"`
	Kept    int `json:"kept"`

	// Slices is the number of images cut from the template.
	Slices int `json:"slices"`

	RenderTime time.Duration `json:"render_time"`
	Duration   time.Duration `json:"duration"`
}

// Name returns the bundle's directory name, used in asset URLs.
func (b *Bundle) Name() string {
	if b.Dir == "" {
		return ""
	}
	return filepath.Base(b.Dir)
}

// Config returns the theme configuration that activates b.
func (b *Bundle) Config() *store.ThemeConfig {
	return &store.ThemeConfig{
		Theme:       b.Theme,
		Palette:     b.Palette,
		Scheme:      b.Scheme,
		BundleID:    b.ID,
		Key:         b.Key,
		Dir:         b.Dir,
		Generation:  b.Generation,
		Dirs:        []string{b.Dir},
		Stylesheets: b.Stylesheets,
		Files:       b.Files,
		Screenshot:  b.Screenshot,
		UpdatedAt:   time.Now().UTC(),
	}
}
