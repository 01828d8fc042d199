// Package pkg holds the posterkit libraries.
//
// posterkit fills print-ready poster templates with event details and writes
// them as PNG and single-page PDF. The same pipeline backs the CLI and the web
// UI.
//
// # Layout
//
//	[textfit]   auto-fit text engine: wrap, fit, place (pure, font-agnostic)
//	[fonts]     font loading, per-render face sessions, text measurement
//	[assets]    logo, background and QR code images
//	[poster]    the event, blank-space and today's-date templates
//	[sink]      PNG and PDF encoding
//	[cache]     artifact cache backends: null, memory, file, redis
//	[pipeline]  render → encode → cache, shared by CLI and server
//	[server]    chi web UI with download hand-off
//	[convert]   batch PPTX/PDF → PNG via LibreOffice and poppler
//	[config]    TOML configuration
//	[errors]    coded errors with user-facing messages
//
// # Data flow
//
//	poster.Request (form or flags)
//	         ↓
//	    [poster] template draws onto a canvas, text laid out by [textfit]
//	         ↓
//	    [sink] encodes PNG / PDF
//	         ↓
//	    [cache] stores artifacts; [server] hands them out for download
//
// # Quick start
//
//	env := poster.NewEnv(logger)
//	runner := pipeline.NewRunner(env, cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Request: poster.BlankRequest{Text: "Forever Canadian"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile(res.Filename("png"), res.Artifacts["png"], 0o644)
package pkg
