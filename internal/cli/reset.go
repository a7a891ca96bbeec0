package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/recolor/pkg/errors"
)

// resetCommand creates the reset command.
func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <theme>",
		Short: "Reset a theme to its stock colors",
		Long: `Reset removes a theme's stored palette and its generated bundle, so the
theme shows its stock assets again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := errors.ValidateThemeName(name); err != nil {
				return err
			}

			e, err := c.openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			prev, err := e.store.Get(cmd.Context(), name)
			if err != nil {
				return err
			}
			if prev == nil {
				printInfo("%s already uses its stock colors", name)
				return nil
			}
			if err := e.gen.Reset(cmd.Context(), name); err != nil {
				return err
			}
			printSuccess("Reset %s to its stock colors", name)
			if prev.Dir != "" {
				printDetail("Removed %s", prev.Dir)
			}
			return nil
		},
	}
}
