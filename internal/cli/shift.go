package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recolor/pkg/color"
	"github.com/matzehuels/recolor/pkg/theme"
)

// shiftCommand creates the shift debugging command.
func (c *CLI) shiftCommand() *cobra.Command {
	var (
		from   string
		to     string
		target string
	)

	cmd := &cobra.Command{
		Use:   "shift <color>",
		Short: "Show how a stylesheet color is shifted to a new palette",
		Long: `Shift maps a color derived from the old palette color --from to the color
derived the same way from the new palette color --to. The derived color is
assumed to be --from blended toward --target (white by default).`,
		Example: `  recolor shift '#5b8fb9' --from '#0071b3' --to '#cc0000'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r1, err := color.Parse(from)
			if err != nil {
				return err
			}
			r2, err := color.Parse(args[0])
			if err != nil {
				return err
			}
			t, err := color.Parse(target)
			if err != nil {
				return err
			}
			given, err := color.Parse(to)
			if err != nil {
				return err
			}

			out := color.ShiftRGB(given, r1, r2, t).Hex()
			printKeyValue("Color", swatch(r2.Hex()))
			printKeyValue("From", swatch(r1.Hex()))
			printKeyValue("To", swatch(given.Hex()))
			printKeyValue("Target", swatch(t.Hex()))
			printKeyValue("Blend", fmt.Sprintf("%.3f", color.BlendFraction(r1, r2, t)))
			printKeyValue("Result", swatch(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "old palette color the input derives from")
	cmd.Flags().StringVar(&to, "to", "", "new palette color")
	cmd.Flags().StringVar(&target, "target", theme.DefaultBlendTarget, "color the input is blended toward")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
