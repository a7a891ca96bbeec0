package bundle

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/recolor/pkg/cache"
	"github.com/matzehuels/recolor/pkg/errors"
	"github.com/matzehuels/recolor/pkg/observability"
	"github.com/matzehuels/recolor/pkg/palette"
	"github.com/matzehuels/recolor/pkg/store"
	"github.com/matzehuels/recolor/pkg/theme"
)

// activateAttempts bounds how often Generate rebuilds a bundle that was
// removed before it could be activated.
const activateAttempts = 3

var errBundleGone = errors.New(errors.ErrCodeStorage, "bundle was removed before it could be activated")

// Generator builds bundles with caching.
//
// A Generator is safe for concurrent use. Concurrent requests for the same
// bundle key share a single build.
type Generator struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Tags      *cache.Tags
	Store     store.Store
	AssetsDir string
	Logger    *log.Logger

	flight singleflight.Group
	locks  sync.Map // theme name -> *sync.Mutex
}

// NewGenerator creates a generator writing bundles below assetsDir.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If st is nil, generated bundles are not activated.
func NewGenerator(c cache.Cache, keyer cache.Keyer, st store.Store, assetsDir string, logger *log.Logger) *Generator {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		Cache:     c,
		Keyer:     keyer,
		Tags:      cache.NewTags(c, keyer),
		Store:     st,
		AssetsDir: assetsDir,
		Logger:    logger,
	}
}

// Generate returns the bundle for req, building it unless a cached bundle
// is still complete on disk, and activates it in the store.
func (g *Generator) Generate(ctx context.Context, req Request) (b *Bundle, err error) {
	start := time.Now()

	info, err := theme.Load(req.ThemeDir)
	if err != nil {
		return nil, err
	}

	hooks := observability.Bundle()
	hooks.OnGenerateStart(ctx, info.Name)
	defer func() {
		files := 0
		if b != nil {
			files = len(b.Files)
		}
		hooks.OnGenerateComplete(ctx, info.Name, files, time.Since(start), err)
	}()

	pal, def, scheme, err := ResolvePalette(info, req)
	if err != nil {
		return nil, err
	}

	if pal.Equal(def) {
		if err := g.Reset(ctx, info.Name); err != nil {
			return nil, err
		}
		g.Logger.Info("palette matches theme default, using stock assets", "theme", info.Name)
		return &Bundle{
			Theme:     info.Name,
			Palette:   pal,
			Scheme:    scheme,
			Default:   true,
			CreatedAt: time.Now().UTC(),
		}, nil
	}

	gen, err := g.Tags.Generation(ctx, cache.TagLibraryInfo)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "read cache tag")
	}
	key := g.Keyer.BundleKey(info.Name, cache.BundleKeyOpts{
		Palette:    pal.Fingerprint(),
		Contexts:   keyContexts(req),
		Generation: gen,
	})
	dir := filepath.Join(g.AssetsDir, info.Name+"-"+cache.Digest(key)[:8])

	job := buildJob{
		info:       info,
		palette:    pal,
		def:        def,
		scheme:     scheme,
		key:        key,
		dir:        dir,
		baseURL:    req.BaseURL,
		generation: gen,
	}
	refresh := req.Refresh
	for attempt := 1; ; attempt++ {
		if b, err = g.fetch(ctx, job, refresh); err != nil {
			return nil, err
		}
		err = g.activate(ctx, b)
		if err == nil {
			break
		}
		if err != errBundleGone || attempt == activateAttempts {
			return nil, err
		}
		g.Logger.Debug("bundle removed before activation, rebuilding", "bundle", b.Name())
		refresh = true
	}

	g.Logger.Info("bundle ready",
		"theme", b.Theme,
		"bundle", b.Name(),
		"files", len(b.Files),
		"cached", b.Cached,
		"duration", time.Since(start))
	return b, nil
}

// fetch returns the cached bundle of job or builds it. The build is shared
// by every caller asking for the same key and outlives a cancelled caller.
func (g *Generator) fetch(ctx context.Context, job buildJob, refresh bool) (*Bundle, error) {
	ch := g.flight.DoChan(job.key, func() (any, error) {
		bctx := context.WithoutCancel(ctx)
		if !refresh {
			if cached, ok := g.lookup(bctx, job.key); ok {
				return cached, nil
			}
		}
		return g.build(bctx, job)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Bundle), nil
	}
}

// ResolvePalette returns the full palette req asks for, the theme's default
// palette, and the name of the scheme the palette equals ("" if custom).
func ResolvePalette(info *theme.Info, req Request) (pal, def *palette.Palette, scheme string, err error) {
	schemes, err := info.PaletteSchemes()
	if err != nil {
		return nil, nil, "", err
	}
	d, ok := palette.Default(schemes)
	if !ok {
		return nil, nil, "", errors.New(errors.ErrCodeInvalidTheme, "theme %q declares no color schemes", info.Name)
	}
	def = d.Palette

	switch {
	case req.Scheme != "":
		sp, err := info.Scheme(req.Scheme)
		if err != nil {
			return nil, nil, "", err
		}
		pal = sp.Clone()
	case req.Palette != nil:
		known := make(map[string]bool)
		for _, f := range info.FieldNames() {
			known[f] = true
		}
		for _, slot := range req.Palette.Slots() {
			if !known[slot] {
				return nil, nil, "", errors.New(errors.ErrCodeInvalidPalette, "theme %q has no color slot %q", info.Name, slot)
			}
		}
		pal = req.Palette.Merge(def)
	default:
		pal = def.Clone()
	}

	if err := pal.Validate(info.FieldNames()); err != nil {
		return nil, nil, "", err
	}
	return pal, def, palette.Match(schemes, pal), nil
}

// keyContexts returns the cache contexts of req, including its base URL,
// which changes the rewritten stylesheets.
func keyContexts(req Request) []string {
	contexts := append([]string(nil), req.Contexts...)
	if req.BaseURL != "" {
		contexts = append(contexts, "base_url:"+req.BaseURL)
	}
	return contexts
}

// lookup returns the cached bundle for key if all its files still exist.
func (g *Generator) lookup(ctx context.Context, key string) (*Bundle, bool) {
	hooks := observability.Cache()

	data, hit, err := g.Cache.Get(ctx, key)
	if err != nil {
		g.Logger.Warn("bundle cache lookup failed", "error", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "bundle")
		return nil, false
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		g.Logger.Debug("discarding unreadable bundle manifest", "key", key, "error", err)
		hooks.OnCacheMiss(ctx, "bundle")
		return nil, false
	}
	for _, f := range b.Files {
		if _, err := os.Stat(filepath.Join(b.Dir, f)); err != nil {
			g.Logger.Debug("cached bundle incomplete, regenerating", "bundle", b.Name(), "missing", f)
			hooks.OnCacheMiss(ctx, "bundle")
			return nil, false
		}
	}

	hooks.OnCacheHit(ctx, "bundle")
	b.Cached = true
	return &b, true
}

type buildJob struct {
	info       *theme.Info
	palette    *palette.Palette
	def        *palette.Palette
	scheme     string
	key        string
	dir        string
	baseURL    string
	generation int64
}

// build generates a bundle into a temporary directory, moves it to its
// final location and caches its manifest.
func (g *Generator) build(ctx context.Context, job buildJob) (*Bundle, error) {
	start := time.Now()
	info := job.info

	plan, err := planFiles(info)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.AssetsDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create assets dir")
	}
	tmp, err := os.MkdirTemp(g.AssetsDir, ".build-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create build dir")
	}
	defer os.RemoveAll(tmp)
	if err := os.Chmod(tmp, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create build dir")
	}

	b := &Bundle{
		ID:         uuid.NewString(),
		Theme:      info.Name,
		Key:        job.key,
		Dir:        job.dir,
		Palette:    job.palette,
		Scheme:     job.scheme,
		Generation: job.generation,
		Files:      plan.files(),
		CreatedAt:  time.Now().UTC(),
	}
	for _, rel := range info.CSS {
		b.Stylesheets = append(b.Stylesheets, plan.names[rel])
	}

	if err := g.writeAssets(ctx, job, plan, tmp, b); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(job.dir); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "replace bundle dir")
	}
	if err := os.Rename(tmp, job.dir); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "move bundle into place")
	}

	b.Stats.Duration = time.Since(start)
	g.cacheManifest(ctx, b)

	g.Logger.Debug("generated bundle",
		"theme", b.Theme,
		"dir", b.Dir,
		"exact", b.Stats.Exact,
		"shifted", b.Stats.Shifted,
		"kept", b.Stats.Kept,
		"slices", b.Stats.Slices)
	return b, nil
}

func (g *Generator) cacheManifest(ctx context.Context, b *Bundle) {
	data, err := json.Marshal(b)
	if err != nil {
		g.Logger.Warn("encode bundle manifest", "error", err)
		return
	}
	if err := g.Cache.Set(ctx, b.Key, data, cache.TTLBundle); err != nil {
		g.Logger.Warn("cache bundle manifest", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "bundle", len(data))
}

// activate stores b as the theme's configuration. Bundles of the same
// palette and tag generation built for other cache contexts stay in place;
// those of a replaced palette or an older generation are removed.
func (g *Generator) activate(ctx context.Context, b *Bundle) error {
	if g.Store == nil {
		return nil
	}
	unlock := g.lockTheme(b.Theme)
	defer unlock()

	// A concurrent activation of another palette may have removed b.
	if _, err := os.Stat(b.Dir); err != nil {
		return errBundleGone
	}

	prev, err := g.Store.Get(ctx, b.Theme)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "read theme config")
	}

	cfg := b.Config()
	var stale []string
	if prev != nil {
		if prev.Generation == b.Generation && prev.Palette != nil && prev.Palette.Equal(b.Palette) {
			cfg.Dirs = bundleDirs(prev)
			if !slices.Contains(cfg.Dirs, b.Dir) {
				cfg.Dirs = append(cfg.Dirs, b.Dir)
			}
		} else {
			for _, d := range bundleDirs(prev) {
				if d != b.Dir {
					stale = append(stale, d)
				}
			}
		}
	}

	if err := g.Store.Set(ctx, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "store theme config")
	}
	for _, d := range stale {
		g.removeBundleDir(d)
	}
	return nil
}

// Reset removes the stored configuration of a theme and its bundle files,
// so the theme uses its stock assets again.
func (g *Generator) Reset(ctx context.Context, themeName string) error {
	if g.Store == nil {
		return nil
	}
	unlock := g.lockTheme(themeName)
	defer unlock()

	prev, err := g.Store.Get(ctx, themeName)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "read theme config")
	}
	if prev == nil {
		return nil
	}
	if err := g.Store.Delete(ctx, themeName); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete theme config")
	}
	for _, d := range bundleDirs(prev) {
		g.removeBundleDir(d)
	}
	g.Logger.Info("reset theme colors", "theme", themeName)
	return nil
}

// lockTheme serializes configuration updates of one theme.
func (g *Generator) lockTheme(name string) (unlock func()) {
	v, _ := g.locks.LoadOrStore(name, new(sync.Mutex))
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// bundleDirs returns the bundle directories recorded in cfg.
func bundleDirs(cfg *store.ThemeConfig) []string {
	dirs := make([]string, 0, len(cfg.Dirs)+1)
	for _, d := range cfg.Dirs {
		if d != "" && !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	if cfg.Dir != "" && !slices.Contains(dirs, cfg.Dir) {
		dirs = append(dirs, cfg.Dir)
	}
	return dirs
}

// Invalidate bumps the generation of tags. Invalidating
// [cache.TagLibraryInfo] makes every bundle regenerate on its next request.
func (g *Generator) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		tags = []string{cache.TagLibraryInfo}
	}
	if err := g.Tags.Invalidate(ctx, tags...); err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "invalidate cache tags")
	}
	for _, tag := range tags {
		observability.Cache().OnInvalidate(ctx, tag)
	}
	g.Logger.Info("invalidated cache tags", "tags", strings.Join(tags, ","))
	return nil
}

// removeBundleDir deletes a bundle directory if it lies inside AssetsDir.
func (g *Generator) removeBundleDir(dir string) {
	rel, err := filepath.Rel(g.AssetsDir, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
		g.Logger.Warn("not removing bundle outside assets dir", "dir", dir)
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		g.Logger.Warn("remove old bundle", "dir", dir, "error", err)
		return
	}
	g.Logger.Debug("removed old bundle", "dir", dir)
}

// filePlan maps every source path of a theme to its file name in the bundle.
type filePlan struct {
	names map[string]string
}

func planFiles(info *theme.Info) (*filePlan, error) {
	p := &filePlan{names: make(map[string]string)}
	owner := make(map[string]string)

	add := func(rel string) error {
		name := filepath.Base(filepath.FromSlash(rel))
		if other, ok := owner[name]; ok && other != rel {
			return errors.New(errors.ErrCodeInvalidTheme, "%q and %q would both be written as %q", other, rel, name)
		}
		owner[name] = rel
		p.names[rel] = name
		return nil
	}

	for _, group := range [][]string{info.Copy, info.CSS} {
		for _, rel := range group {
			if err := add(rel); err != nil {
				return nil, err
			}
		}
	}
	if info.HasImages() {
		for _, s := range info.Slices {
			if err := add(s.File); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// files returns the bundle's file names, sorted.
func (p *filePlan) files() []string {
	out := make([]string, 0, len(p.names))
	for _, name := range p.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// pathMap returns the renames stylesheets apply to image references.
func (p *filePlan) pathMap(info *theme.Info) map[string]string {
	css := make(map[string]bool, len(info.CSS))
	for _, rel := range info.CSS {
		css[rel] = true
	}
	m := make(map[string]string, len(p.names))
	for rel, name := range p.names {
		if !css[rel] {
			m[rel] = name
		}
	}
	return m
}
