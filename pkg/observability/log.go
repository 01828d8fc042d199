package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log lines.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
	SetConvertHooks(h)
}

func (h *LogHooks) OnRenderStart(_ context.Context, template string) {
	h.logger.Debug("render start", "template", template)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, template string, d time.Duration, err error) {
	h.logger.Debug("render done", "template", template, "duration", d, "error", err)
}

func (h *LogHooks) OnEncodeComplete(_ context.Context, template, format string, size int, d time.Duration, err error) {
	h.logger.Debug("encode done", "template", template, "format", format, "bytes", size, "duration", d, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) OnConvertStart(_ context.Context, file string) {
	h.logger.Debug("convert start", "file", file)
}

func (h *LogHooks) OnConvertComplete(_ context.Context, file string, d time.Duration, err error) {
	h.logger.Debug("convert done", "file", file, "duration", d, "error", err)
}

func (h *LogHooks) OnConvertSkip(_ context.Context, file, reason string) {
	h.logger.Debug("convert skipped", "file", file, "reason", reason)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
	_ ConvertHooks  = (*LogHooks)(nil)
)
