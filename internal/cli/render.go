package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/pipeline"
	"github.com/matzehuels/posterkit/pkg/poster"
)

// renderOpts holds the flags shared by all render subcommands.
type renderOpts struct {
	output  string
	formats string
	noCache bool
	refresh bool
}

// renderCommand creates the render command with one subcommand per template.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	event := &eventFlags{}
	blank := &blankFlags{}
	today := &todayFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a poster to PNG and PDF",
		Long: `Render a poster template to PNG and a single-page PDF.

Without a subcommand on a terminal, an interactive picker chooses the
template; it is then rendered with its default flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isInteractive() {
				return cmd.Help()
			}
			t, err := pickTemplate()
			if err != nil {
				return err
			}
			if t == nil {
				printInfo("No template selected")
				return nil
			}
			req, err := c.defaultRequest(t.Name(), event, blank, today)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), req, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "output directory or base path (default: suggested name in the working directory)")
	cmd.PersistentFlags().StringVarP(&opts.formats, "format", "f", "", "output formats: png,pdf (default: both)")
	cmd.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.PersistentFlags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	cmd.AddCommand(c.renderEventCommand(event, &opts))
	cmd.AddCommand(c.renderBlankCommand(blank, &opts))
	cmd.AddCommand(c.renderTodayCommand(today, &opts))

	return cmd
}

// eventFlags are the event poster fields.
type eventFlags struct {
	city       string
	date       string
	start      string
	end        string
	address1   string
	address2   string
	info1      string
	info2      string
	noQuestion bool
}

// request builds the event request. Empty fields take the form defaults
// for now; an empty end means start plus poster.DefaultDuration.
func (f *eventFlags) request(now time.Time) (poster.EventRequest, error) {
	req := poster.NewEventRequest(now)
	loc := now.Location()

	if f.city != "" {
		req.City = strings.TrimSpace(f.city)
	}
	if f.date != "" {
		d, err := poster.ParseDate(f.date, loc)
		if err != nil {
			return req, err
		}
		req.Date = d
	}
	if f.start != "" {
		s, err := poster.ParseClock(f.start)
		if err != nil {
			return req, err
		}
		req.Start = s
	}
	if f.end != "" {
		e, err := poster.ParseClock(f.end)
		if err != nil {
			return req, err
		}
		req.End = &e
	}
	if f.address1 != "" {
		req.Address1 = strings.TrimSpace(f.address1)
	}
	req.Address2 = strings.TrimSpace(f.address2)
	req.Info1 = strings.TrimSpace(f.info1)
	req.Info2 = strings.TrimSpace(f.info2)
	req.ShowQuestion = !f.noQuestion
	return req, nil
}

func (c *CLI) renderEventCommand(f *eventFlags, opts *renderOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Render the event details poster",
		Example: `  posterkit render event --city Lethbridge --date 2025-11-01 --start 13:00 \
    --address1 "Galt Museum" --address2 "910 4 Ave S" -o posters/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(c.now())
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), req, *opts)
		},
	}

	cmd.Flags().StringVar(&f.city, "city", "", "municipality name")
	cmd.Flags().StringVar(&f.date, "date", "", "event date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&f.start, "start", "", "start time, HH:MM (default: now)")
	cmd.Flags().StringVar(&f.end, "end", "", "end time, HH:MM (default: start + 2h)")
	cmd.Flags().StringVar(&f.address1, "address1", "", "first address line")
	cmd.Flags().StringVar(&f.address2, "address2", "", "second address line")
	cmd.Flags().StringVar(&f.info1, "info1", "", "first additional info line")
	cmd.Flags().StringVar(&f.info2, "info2", "", "second additional info line")
	cmd.Flags().BoolVar(&f.noQuestion, "no-question", false, "omit the petition question")

	return cmd
}

// blankFlags are the blank-space poster fields.
type blankFlags struct {
	text     string
	textFile string
}

// request builds the blank request. --text-file wins over --text; "-"
// reads standard input.
func (f *blankFlags) request(stdin io.Reader) (poster.BlankRequest, error) {
	if f.textFile == "" {
		return poster.BlankRequest{Text: f.text}, nil
	}
	var (
		data []byte
		err  error
	)
	if f.textFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(f.textFile)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return poster.BlankRequest{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "text file not found: %s", f.textFile)
		}
		return poster.BlankRequest{}, fmt.Errorf("read text file: %w", err)
	}
	return poster.BlankRequest{Text: strings.TrimRight(string(data), "\r\n")}, nil
}

func (c *CLI) renderBlankCommand(f *blankFlags, opts *renderOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blank",
		Short: "Render the blank-space poster",
		Example: `  posterkit render blank --text "Forever Canadian" -f png
  posterkit render blank --text-file notes.txt -o posters/blank`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), req, *opts)
		},
	}

	cmd.Flags().StringVar(&f.text, "text", "", "text for the free area (may be empty)")
	cmd.Flags().StringVar(&f.textFile, "text-file", "", "read the text from a file (- for stdin)")

	return cmd
}

// todayFlags are the today's-date poster fields.
type todayFlags struct {
	date string
}

func (f *todayFlags) request(now time.Time) (poster.TodayRequest, error) {
	if f.date == "" {
		return poster.TodayRequest{Date: now}, nil
	}
	d, err := poster.ParseDate(f.date, now.Location())
	if err != nil {
		return poster.TodayRequest{}, err
	}
	return poster.TodayRequest{Date: d}, nil
}

func (c *CLI) renderTodayCommand(f *todayFlags, opts *renderOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Render today's-date poster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(c.now())
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), req, *opts)
		},
	}

	cmd.Flags().StringVar(&f.date, "date", "", "date to print, YYYY-MM-DD (default: today)")

	return cmd
}

// defaultRequest builds the request for a template picked interactively.
func (c *CLI) defaultRequest(name string, event *eventFlags, blank *blankFlags, today *todayFlags) (poster.Request, error) {
	switch name {
	case poster.KindEvent:
		return event.request(c.now())
	case poster.KindBlank:
		return blank.request(os.Stdin)
	case poster.KindToday:
		return today.request(c.now())
	}
	return nil, errors.New(errors.ErrCodeInvalidTemplate, "unknown template: %q", name)
}

// now is the current time in the configured timezone.
func (c *CLI) now() time.Time {
	loc, err := time.LoadLocation(c.cfg.Site.Timezone)
	if err != nil || c.cfg.Site.Timezone == "" {
		loc = time.Local
	}
	return time.Now().In(loc)
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, req poster.Request, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	env, err := c.newEnv()
	if err != nil {
		return err
	}
	mode := cacheCLI
	if opts.noCache {
		mode = cacheOff
	}
	runner, err := c.newRunner(ctx, env, mode)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s poster...", req.Template()))
	if isInteractive() {
		spinner.Start()
	}
	result, err := runner.Execute(ctx, pipeline.Options{
		Request: req,
		Formats: formats,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(opts.output, result.Name, format)
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s poster", StyleHighlight.Render(result.Template))
	for _, p := range paths {
		printFile(p)
	}
	w, h := templateSize(result.Template)
	printRenderStats(w, h, result.Stats.RenderTime+result.Stats.EncodeTime, result.CacheInfo.Hit)
	return nil
}

func templateSize(name string) (int, int) {
	t, err := poster.Lookup(name)
	if err != nil {
		return 0, 0
	}
	return t.Size()
}

// parseFormats splits a comma-separated list, defaulting to png and pdf.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return append([]string(nil), pipeline.DefaultFormats...)
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPath picks the file for one format. An empty output means the
// suggested name in the working directory. An existing directory, or a
// path ending in a separator, receives the suggested name. Anything else is
// a base path whose png/pdf extension is replaced.
func outputPath(output, name, format string) string {
	file := name + "." + format
	if output == "" {
		return file
	}
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)) {
		return filepath.Join(output, file)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, file)
	}
	switch strings.ToLower(filepath.Ext(output)) {
	case ".png", ".pdf":
		output = strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output + "." + format
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
