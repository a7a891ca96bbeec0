package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recolor/pkg/bundle"
	"github.com/matzehuels/recolor/pkg/errors"
	"github.com/matzehuels/recolor/pkg/palette"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	scheme   string
	colors   []string
	contexts []string
	baseURL  string
	refresh  bool
	noCache  bool
	jsonOut  bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:     "generate <theme>",
		Aliases: []string{"apply"},
		Short:   "Generate and activate a recolored bundle for a theme",
		Long: `Generate recolors a theme's stylesheets and template images for a palette
and activates the result.

The theme is a directory or the name of a directory under themes_dir. The
palette starts from the theme's default scheme; --scheme selects another
scheme and --color overrides single slots. A palette equal to the default
resets the theme to its stock assets.`,
		Example: `  recolor generate lagoon --scheme plum
  recolor apply ./themes/lagoon --color top=#333333 --color link=#cc0000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scheme, "scheme", "s", "", "predefined color scheme")
	cmd.Flags().StringArrayVarP(&opts.colors, "color", "c", nil, "slot color as slot=#hex (repeatable)")
	cmd.Flags().StringArrayVar(&opts.contexts, "context", nil, "extra cache context (repeatable)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "public URL of the theme directory for stock file references")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even if a cached bundle exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the bundle cache")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the bundle as JSON")
	cmd.MarkFlagsMutuallyExclusive("scheme", "color")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, theme string, opts generateOpts) error {
	ctx := cmd.Context()

	pal, err := parseColors(opts.colors)
	if err != nil {
		return err
	}

	e, err := c.openEnv(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer e.Close()

	req := bundle.Request{
		ThemeDir: themeDir(e.cfg, theme),
		Palette:  pal,
		Scheme:   opts.scheme,
		Contexts: opts.contexts,
		BaseURL:  opts.baseURL,
		Refresh:  opts.refresh,
	}

	var spinner *Spinner
	if !opts.jsonOut {
		spinner = newSpinnerWithContext(ctx, "Generating bundle...")
		spinner.Start()
	}
	prog := newProgress(loggerFromContext(ctx))
	b, err := e.gen.Generate(ctx, req)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if errors.IsNotFound(err) && !opts.jsonOut {
			printNextStep("Themes are looked up in", e.cfg.ThemesDir)
		}
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	if b.Default {
		printSuccess("Palette matches the default of %s; using stock assets", b.Theme)
		return nil
	}
	prog.done(fmt.Sprintf("Generated %s", b.Name()))

	printSuccess("Activated %s for %s", b.Name(), b.Theme)
	if b.Scheme != "" {
		printKeyValue("Scheme", b.Scheme)
	}
	printBundleStats(b)
	for _, f := range b.Stylesheets {
		printFile(filepath.Join(b.Dir, f))
	}
	if b.Screenshot != "" {
		printFile(filepath.Join(b.Dir, b.Screenshot))
	}
	printNextStep("Reset with", "recolor reset "+b.Theme)
	return nil
}

// parseColors builds a palette from slot=#hex pairs. It returns nil for no
// pairs.
func parseColors(pairs []string) (*palette.Palette, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	p := palette.New()
	for _, pair := range pairs {
		slot, hex, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --color %q (want slot=#hex)", pair)
		}
		if err := p.Set(strings.TrimSpace(slot), strings.TrimSpace(hex)); err != nil {
			return nil, err
		}
	}
	return p, nil
}
