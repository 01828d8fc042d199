// Package pipeline runs a poster request through render and encode.
//
// The same runner backs the CLI and the web UI, so both produce identical
// bytes for identical input and share one artifact cache.
//
// # Stages
//
//  1. Render: look up the template, validate the request and draw the canvas
//  2. Encode: write the canvas as PNG and/or a single-page PDF
//
// Encoded artifacts are cached under a key derived from the request, the
// organisation settings and the asset set, so a repeated request skips both
// stages.
//
// # Usage
//
//	env := poster.NewEnv(logger)
//	runner := pipeline.NewRunner(env, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Request: poster.TodayRequest{Date: time.Now()},
//	    Formats: []string{"png", "pdf"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/poster"
	"github.com/matzehuels/posterkit/pkg/sink"
)

// Output formats.
const (
	FormatPNG = sink.FormatPNG
	FormatPDF = sink.FormatPDF
)

// DefaultFormats are produced when Options.Formats is empty.
var DefaultFormats = []string{FormatPNG, FormatPDF}

// Options configures one pipeline run.
type Options struct {
	// Request is the template input. Required.
	Request poster.Request
	// Formats to encode, in order. Defaults to DefaultFormats.
	Formats []string
	// Refresh bypasses cached artifacts. Fresh results are still stored.
	Refresh bool

	Logger *log.Logger

	validated bool
}

// Result is the output of a pipeline run.
type Result struct {
	// Template is the name of the template that drew the poster.
	Template string
	// Name is the suggested file name without extension.
	Name string
	// Artifacts holds the encoded poster keyed by format.
	Artifacts map[string][]byte
	// Warnings are layout problems that did not stop the render, such as
	// text that needed the minimum size and still overflowed. Empty on a
	// cache hit.
	Warnings []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Filename returns the suggested download name for a format.
func (r *Result) Filename(format string) string {
	return r.Name + "." + format
}

// Stats contains pipeline timings.
type Stats struct {
	RenderTime time.Duration
	EncodeTime time.Duration
}

// CacheInfo reports whether artifacts came from the cache.
type CacheInfo struct {
	Hit bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !sink.ValidFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks every format in the list.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Request == nil {
		return errors.New(errors.ErrCodeInvalidInput, "request is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
