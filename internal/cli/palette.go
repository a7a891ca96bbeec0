package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recolor/pkg/bundle"
	"github.com/matzehuels/recolor/pkg/theme"
)

// paletteCommand creates the palette command.
func (c *CLI) paletteCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "palette <theme>",
		Short: "Show a theme's color slots and schemes",
		Long: `Palette lists the color slots a theme declares with their default colors,
its predefined schemes, and the palette currently active. With --pick, a
scheme is chosen interactively and applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := c.openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.Close()

			info, err := theme.Load(themeDir(e.cfg, args[0]))
			if err != nil {
				return err
			}
			schemes, err := info.PaletteSchemes()
			if err != nil {
				return err
			}
			def, err := info.DefaultPalette()
			if err != nil {
				return err
			}
			active, err := e.store.Get(ctx, info.Name)
			if err != nil {
				return err
			}

			activeScheme := ""
			if active != nil {
				activeScheme = active.Scheme
			}

			if pick {
				m := NewSchemePickerModel(info.Name, info.FieldNames(), schemes, activeScheme)
				final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
				if err != nil {
					return fmt.Errorf("scheme picker: %w", err)
				}
				sel := final.(SchemePickerModel).Selected
				if sel == nil {
					return nil
				}
				b, err := e.gen.Generate(ctx, bundle.Request{ThemeDir: info.Dir, Scheme: sel.Name})
				if err != nil {
					return err
				}
				if b.Default {
					printSuccess("Reset %s to its stock colors", info.Name)
				} else {
					printSuccess("Applied %s to %s", sel.Name, info.Name)
					printBundleStats(b)
				}
				return nil
			}

			fmt.Println(StyleTitle.Render(info.Name))
			for _, f := range info.Fields {
				hex, _ := def.Get(f.Name)
				if active != nil && active.Palette != nil {
					if h, ok := active.Palette.Get(f.Name); ok {
						hex = h
					}
				}
				printSlot(f.Name, f.Label, hex)
			}
			fmt.Println()
			fmt.Println(schemeTable(info.FieldNames(), schemes, activeScheme))

			switch {
			case active == nil:
				printInfo("Using stock colors")
			case active.Scheme != "":
				printInfo("Active scheme: %s", active.Scheme)
			default:
				printInfo("Active: custom palette (%s)", active.Dir)
			}
			printNextStep("Pick a scheme with", "recolor palette "+info.Name+" --pick")
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose a scheme interactively and apply it")
	return cmd
}
