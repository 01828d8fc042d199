package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/posterkit/pkg/observability"
	"github.com/matzehuels/posterkit/pkg/poster"
	"github.com/matzehuels/posterkit/pkg/sink"
)

// Render draws the poster for req without touching the cache.
func (r *Runner) Render(ctx context.Context, req poster.Request) (*poster.Poster, error) {
	hooks := observability.Pipeline()
	name := req.Template()
	hooks.OnRenderStart(ctx, name)
	start := time.Now()
	p, err := poster.Render(ctx, r.Env, req)
	hooks.OnRenderComplete(ctx, name, time.Since(start), err)
	return p, err
}

// Encode writes p in every format.
func (r *Runner) Encode(ctx context.Context, p *poster.Poster, formats []string) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	pdfOpts := sink.PDFOptions{
		Page:    p.Page,
		Title:   p.Name,
		Created: now(),
	}

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		var buf bytes.Buffer
		err := sink.Encode(&buf, format, p.Image, pdfOpts)
		hooks.OnEncodeComplete(ctx, p.Template, format, buf.Len(), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}
