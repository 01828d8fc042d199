package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/fonts"
	"github.com/matzehuels/posterkit/pkg/textfit"
)

// fitOpts are the fit command flags.
type fitOpts struct {
	font   string
	left   int
	top    int
	width  int
	height int
	min    int
	max    int
	gap    float64
}

func (o fitOpts) box() textfit.Box {
	return textfit.Box{Left: o.left, Top: o.top, Width: o.width, Height: o.height}
}

// fitCommand creates the auto-fit debugging command.
func (c *CLI) fitCommand() *cobra.Command {
	opts := fitOpts{}

	cmd := &cobra.Command{
		Use:   "fit TEXT",
		Short: "Show how text is fitted into a box",
		Long: `Fit TEXT into a box the way the poster templates do: the largest font size
whose wrapped lines fit the box, each line centered, the block centered
vertically. Prints the chosen size and where every line is drawn.`,
		Example: `  posterkit fit --width 2040 --height 600 --max 250 "Lethbridge Public Library"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := commandLogger(cmd)

			if err := opts.box().Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidBox, err, "invalid box")
			}

			loader := fonts.NewLoader(logger)
			chain := []string{opts.font}
			if opts.font == "" {
				chain = append([]string{c.cfg.Fonts.Title}, c.cfg.Fonts.Fallback...)
			}
			source, err := loader.Resolve(append(chain, fonts.BuiltinBold)...)
			if err != nil {
				return err
			}

			sess := loader.Session()
			defer sess.Close()

			res, placed, err := textfit.Layout(args[0], sess.Measurer(source), opts.box(), opts.min, opts.max, opts.gap)
			if err != nil {
				return err
			}

			printKeyValue("Font", source)
			printKeyValue("Size", strconv.Itoa(res.Size))
			printKeyValue("Line height", strconv.Itoa(res.LineHeight))
			printKeyValue("Gap", strconv.Itoa(res.Gap))
			printKeyValue("Block", fmt.Sprintf("%d of %d px", res.Height(), opts.height))
			if !res.Fits {
				printWarning("Text overflows the box even at the minimum size %d", opts.min)
			}
			printNewline()
			fmt.Println(placedTable(placed))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.font, "font", "", "font file or builtin:gobold / builtin:goregular (default: configured title font)")
	cmd.Flags().IntVar(&opts.left, "left", 0, "box left edge")
	cmd.Flags().IntVar(&opts.top, "top", 0, "box top edge")
	cmd.Flags().IntVar(&opts.width, "width", 1000, "box width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 400, "box height in pixels")
	cmd.Flags().IntVar(&opts.min, "min", 10, "smallest font size")
	cmd.Flags().IntVar(&opts.max, "max", 200, "largest font size")
	cmd.Flags().Float64Var(&opts.gap, "gap", 0.2, "line gap as a fraction of line height")
	_ = cmd.RegisterFlagCompletionFunc("font", completeFonts)

	return cmd
}

// placedTable renders placed lines as a table.
func placedTable(lines []textfit.PlacedLine) string {
	rows := make([][]string, 0, len(lines))
	for i, l := range lines {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			l.Text,
			strconv.Itoa(l.X),
			strconv.Itoa(l.Y),
			strconv.Itoa(l.Width),
			strconv.Itoa(l.Height),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Line", "X", "Y", "W", "H").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return StyleHeader
			}
			if col == 1 {
				return StyleValue
			}
			return StyleNumber
		}).
		Render()
}
