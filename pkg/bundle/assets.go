package bundle

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/recolor/pkg/errors"
	"github.com/matzehuels/recolor/pkg/observability"
	"github.com/matzehuels/recolor/pkg/render"
	"github.com/matzehuels/recolor/pkg/stylesheet"
)

// writeAssets copies neutral files, renders the template and rewrites the
// stylesheets into dir concurrently, filling in b's stats and screenshot.
func (g *Generator) writeAssets(ctx context.Context, job buildJob, plan *filePlan, dir string, b *Bundle) error {
	info := job.info
	eg, ctx := errgroup.WithContext(ctx)

	for _, rel := range info.Copy {
		src, dst := info.Path(rel), filepath.Join(dir, plan.names[rel])
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return copyFile(src, dst)
		})
	}

	if info.HasImages() {
		eg.Go(func() error {
			start := time.Now()
			shot, n, err := g.renderImages(ctx, job, plan, dir)
			observability.Bundle().OnRender(ctx, info.Name, n, time.Since(start), err)
			if err != nil {
				return err
			}
			b.Screenshot = shot
			b.Stats.Slices = n
			b.Stats.RenderTime = time.Since(start)
			return nil
		})
	}

	var mu sync.Mutex
	pathMap := plan.pathMap(info)
	for _, rel := range info.CSS {
		opts := stylesheet.Options{
			Palette:     job.palette,
			Default:     job.def,
			BlendTarget: info.Target(),
			PathMap:     pathMap,
			SourceDir:   path.Dir(rel),
			BaseURL:     job.baseURL,
		}
		src, dst := info.Path(rel), filepath.Join(dir, plan.names[rel])
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats, err := rewriteFile(src, dst, opts)
			if err != nil {
				code := errors.GetCode(err)
				if code == "" {
					code = errors.ErrCodeInternal
				}
				return errors.Wrap(code, err, "stylesheet %s", rel)
			}
			observability.Bundle().OnStylesheet(ctx, info.Name, rel, stats.Exact, stats.Shifted, stats.Kept)
			g.Logger.Debug("rewrote stylesheet", "file", rel, "exact", stats.Exact, "shifted", stats.Shifted, "kept", stats.Kept)

			mu.Lock()
			b.Stats.Exact += stats.Exact
			b.Stats.Shifted += stats.Shifted
			b.Stats.Kept += stats.Kept
			mu.Unlock()
			return nil
		})
	}

	return eg.Wait()
}

// renderImages paints the template and writes its slices, returning the
// screenshot's file name and the number of slices.
func (g *Generator) renderImages(ctx context.Context, job buildJob, plan *filePlan, dir string) (string, int, error) {
	info := job.info

	tmpl, err := render.LoadTemplate(info.Path(info.BaseImage))
	if err != nil {
		return "", 0, err
	}
	canvas, err := render.Render(tmpl, info, job.palette)
	if err != nil {
		return "", 0, err
	}
	slices, err := render.Cut(canvas, info)
	if err != nil {
		return "", 0, err
	}

	var shot string
	for _, s := range slices {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		name := plan.names[s.File]
		if err := writePNG(filepath.Join(dir, name), s); err != nil {
			return "", 0, err
		}
		if s.Screenshot {
			shot = name
		}
	}
	return shot, len(slices), nil
}

func writePNG(path string, s render.Slice) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create %s", s.Name)
	}
	if err := render.EncodePNG(f, s.Image); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", s.Name)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", s.Name)
	}
	return nil
}

func rewriteFile(src, dst string, opts stylesheet.Options) (stylesheet.Stats, error) {
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return stylesheet.Stats{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read stylesheet")
	}
	if err != nil {
		return stylesheet.Stats{}, errors.Wrap(errors.ErrCodeStorage, err, "read stylesheet")
	}
	out, stats, err := stylesheet.Rewrite(string(data), opts)
	if err != nil {
		return stats, err
	}
	if err := os.WriteFile(dst, []byte(out), 0644); err != nil {
		return stats, errors.Wrap(errors.ErrCodeStorage, err, "write stylesheet")
	}
	return stats, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "copy %s", filepath.Base(src))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "copy %s", filepath.Base(src))
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "copy %s", filepath.Base(src))
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "copy %s", filepath.Base(src))
	}
	return out.Close()
}
