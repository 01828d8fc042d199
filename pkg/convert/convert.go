// Package convert rasterises the first page of presentations and PDFs.
//
// PDFs go straight through pdftoppm (poppler). PPTX files are first
// exported to PDF by LibreOffice (soffice) and then rasterised the same
// way. Each input dir/name.ext produces dir/name.png.
//
// Conversions run concurrently up to Options.Jobs. LibreOffice cannot run
// two conversions against one user profile, so soffice calls are
// serialised. When soffice is not installed PPTX files are skipped with a
// warning; a missing pdftoppm is an error since nothing can be converted.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/observability"
)

// Defaults for zero Options fields.
const (
	DefaultDPI      = 300
	DefaultSoffice  = "soffice"
	DefaultPdftoppm = "pdftoppm"
)

// Input kinds recognised by Scan.
const (
	KindPPTX = ".pptx"
	KindPDF  = ".pdf"
)

// Install hints shown when an engine is missing.
const (
	sofficeHint  = "PPTX conversion requires LibreOffice. Install with:\n  macOS:  brew install --cask libreoffice\n  Linux:  apt install libreoffice-impress"
	pdftoppmHint = "PNG export requires poppler. Install with:\n  macOS:  brew install poppler\n  Linux:  apt install poppler-utils"
)

// Options configures a Converter.
type Options struct {
	DPI  int
	Jobs int
	// Soffice and Pdftoppm name the engine binaries.
	Soffice  string
	Pdftoppm string
	// Runner executes the engines. Defaults to ExecRunner.
	Runner Runner
	Logger *log.Logger
	// Progress, if set, is called after each file is finished or skipped.
	// Calls are serialized.
	Progress func(done, total int)
}

// Converter batch-converts files to PNG.
type Converter struct {
	dpi      int
	jobs     int
	soffice  string
	pdftoppm string
	runner   Runner
	logger   *log.Logger
	progress func(done, total int)

	sofficeMu sync.Mutex
}

// New creates a converter.
func New(opts Options) *Converter {
	c := &Converter{
		dpi:      opts.DPI,
		jobs:     opts.Jobs,
		soffice:  opts.Soffice,
		pdftoppm: opts.Pdftoppm,
		runner:   opts.Runner,
		logger:   opts.Logger,
		progress: opts.Progress,
	}
	if c.dpi <= 0 {
		c.dpi = DefaultDPI
	}
	if c.jobs <= 0 {
		c.jobs = runtime.NumCPU()
	}
	if c.soffice == "" {
		c.soffice = DefaultSoffice
	}
	if c.pdftoppm == "" {
		c.pdftoppm = DefaultPdftoppm
	}
	if c.runner == nil {
		c.runner = ExecRunner{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Status is the outcome of one file.
type Status string

// File outcomes.
const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FileResult is the outcome for one input file.
type FileResult struct {
	Source   string
	Output   string
	Status   Status
	Reason   string
	Err      error
	Duration time.Duration
}

// Report lists the results in input order: PPTX files first, then PDFs,
// each sorted by name.
type Report struct {
	Dir     string
	Results []FileResult
}

// Count returns how many results have the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Scan lists the .pptx and .pdf files directly inside dir, sorted by name.
// Extensions match case-insensitively.
func Scan(dir string) (pptx, pdf []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case KindPPTX:
			pptx = append(pptx, path)
		case KindPDF:
			pdf = append(pdf, path)
		}
	}
	sort.Strings(pptx)
	sort.Strings(pdf)
	return pptx, pdf, nil
}

// OutputPath returns the PNG path for an input file.
func OutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".png"
}

// ConvertDir converts every PPTX and PDF in dir. Per-file failures are
// recorded in the report; the returned error is reserved for an unusable
// directory, a missing pdftoppm or cancellation.
func (c *Converter) ConvertDir(ctx context.Context, dir string) (*Report, error) {
	if err := errors.ValidatePath(dir); err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "folder not found: %s", dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "not a folder: %s", dir)
	}

	pptx, pdf, err := Scan(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	report := &Report{Dir: dir, Results: make([]FileResult, len(pptx)+len(pdf))}
	if len(report.Results) == 0 {
		c.logger.Info("no .pptx or .pdf files found", "dir", dir)
		return report, nil
	}

	if _, err := c.runner.LookPath(c.pdftoppm); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineMissing, err, "%s not found", c.pdftoppm).WithHint(pdftoppmHint)
	}
	sofficeOK := true
	if len(pptx) > 0 {
		if _, err := c.runner.LookPath(c.soffice); err != nil {
			sofficeOK = false
			c.logger.Warn("PPTX conversion will be skipped", "engine", c.soffice, "files", len(pptx))
			c.logger.Warn(sofficeHint)
		}
	}

	hooks := observability.Convert()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.jobs)

	files := append(append([]string(nil), pptx...), pdf...)
	pdfByOutput := make(map[string]string, len(pdf))
	for _, p := range pdf {
		pdfByOutput[strings.ToLower(OutputPath(p))] = p
	}
	var (
		mu       sync.Mutex
		finished int
	)
	tick := func() {
		if c.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		finished++
		c.progress(finished, len(files))
	}
	for i, src := range files {
		isPPTX := i < len(pptx)
		var reason string
		if isPPTX {
			// A PDF with the same stem owns the PNG.
			if p, ok := pdfByOutput[strings.ToLower(OutputPath(src))]; ok {
				reason = "output collides with " + filepath.Base(p)
			} else if !sofficeOK {
				reason = c.soffice + " not installed"
			}
		}
		if reason != "" {
			report.Results[i] = FileResult{Source: src, Status: StatusSkipped, Reason: reason}
			hooks.OnConvertSkip(ctx, src, reason)
			tick()
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Results[i] = c.convertOne(gctx, src, isPPTX)
			tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (c *Converter) convertOne(ctx context.Context, src string, isPPTX bool) FileResult {
	hooks := observability.Convert()
	out := OutputPath(src)
	hooks.OnConvertStart(ctx, src)
	start := time.Now()

	var err error
	if isPPTX {
		c.logger.Info("converting PPTX", "file", filepath.Base(src), "dpi", c.dpi)
		err = c.ConvertPPTX(ctx, src, out)
	} else {
		c.logger.Info("converting PDF", "file", filepath.Base(src), "dpi", c.dpi)
		err = c.ConvertPDF(ctx, src, out)
	}
	d := time.Since(start)
	hooks.OnConvertComplete(ctx, src, d, err)

	res := FileResult{Source: src, Output: out, Duration: d, Status: StatusConverted}
	if err != nil {
		c.logger.Error("conversion failed", "file", filepath.Base(src), "error", err)
		res.Status = StatusFailed
		res.Err = err
		res.Output = ""
		return res
	}
	c.logger.Debug("saved", "file", filepath.Base(out), "duration", d)
	return res
}

// ConvertPDF writes the first page of pdf to out as PNG.
func (c *Converter) ConvertPDF(ctx context.Context, pdf, out string) error {
	prefix := strings.TrimSuffix(out, filepath.Ext(out))
	err := c.runner.Run(ctx, c.pdftoppm,
		"-png",
		"-r", strconv.Itoa(c.dpi),
		"-f", "1", "-l", "1",
		"-singlefile",
		pdf, prefix)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEngineFailed, err, "rasterise %s", filepath.Base(pdf))
	}
	if prefix+".png" != out {
		if err := os.Rename(prefix+".png", out); err != nil {
			return err
		}
	}
	if _, err := os.Stat(out); err != nil {
		return errors.Wrap(errors.ErrCodeEngineFailed, err, "%s produced no image for %s", c.pdftoppm, filepath.Base(pdf))
	}
	return nil
}

// ConvertPPTX exports pptx to a temporary PDF with LibreOffice and writes
// its first page to out as PNG.
func (c *Converter) ConvertPPTX(ctx context.Context, pptx, out string) error {
	tmp, err := os.MkdirTemp("", "posterkit-convert-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := c.exportPDF(ctx, pptx, tmp); err != nil {
		return err
	}
	stem := strings.TrimSuffix(filepath.Base(pptx), filepath.Ext(pptx))
	pdf := filepath.Join(tmp, stem+".pdf")
	if _, err := os.Stat(pdf); err != nil {
		return errors.Wrap(errors.ErrCodeEngineFailed, err, "%s produced no PDF for %s", c.soffice, filepath.Base(pptx))
	}
	return c.ConvertPDF(ctx, pdf, out)
}

func (c *Converter) exportPDF(ctx context.Context, pptx, outDir string) error {
	c.sofficeMu.Lock()
	defer c.sofficeMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	err := c.runner.Run(ctx, c.soffice,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		pptx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEngineFailed, err, "export %s to PDF", filepath.Base(pptx))
	}
	return nil
}
