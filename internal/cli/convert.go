package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posterkit/pkg/convert"
)

// convertCommand creates the batch PPTX/PDF to PNG command.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		dpi  int
		jobs int
	)

	cmd := &cobra.Command{
		Use:   "convert DIR",
		Short: "Convert the first page of every PPTX/PDF in a folder to PNG",
		Long: `Convert the first page of every .pptx and .pdf file directly inside DIR to
DIR/<name>.png. PPTX files go through LibreOffice (soffice) and all files are
rasterised with pdftoppm from poppler. Without soffice, PPTX files are
skipped with a warning.`,
		Example: `  posterkit convert ~/Downloads/posters --dpi 150`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := commandLogger(cmd)

			if dpi <= 0 {
				dpi = c.cfg.Convert.DPI
			}
			if jobs <= 0 {
				jobs = c.cfg.Convert.Jobs
			}

			spinner := newSpinner(ctx, "Converting...")
			conv := convert.New(convert.Options{
				DPI:      dpi,
				Jobs:     jobs,
				Soffice:  c.cfg.Convert.Soffice,
				Pdftoppm: c.cfg.Convert.Pdftoppm,
				Logger:   logger,
				Progress: func(done, total int) {
					spinner.SetMessage("Converting %d/%d...", done, total)
				},
			})

			prog := newProgress(logger)
			if isInteractive() {
				spinner.Start()
			}
			report, err := conv.ConvertDir(ctx, args[0])
			spinner.Stop()
			if err != nil {
				return err
			}

			printConvertReport(report)
			failed := report.Count(convert.StatusFailed)
			prog.done(fmt.Sprintf("Converted %d of %d files", report.Count(convert.StatusConverted), len(report.Results)))
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed to convert", failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&dpi, "dpi", 0, "output resolution (default from config, 300)")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "parallel conversions (default: number of CPUs)")

	return cmd
}
