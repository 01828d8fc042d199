package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/posterkit/pkg/cache"
	"github.com/matzehuels/posterkit/pkg/observability"
	"github.com/matzehuels/posterkit/pkg/poster"
)

// Runner executes poster requests with caching.
//
// A Runner keeps no per-request state. Multiple goroutines may call Execute
// concurrently; each render opens its own font session.
type Runner struct {
	Env    *poster.Env
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// AssetsID identifies the loaded asset set in cache keys. Change it
	// whenever logo, background or QR images change.
	AssetsID string

	// Now stamps PDF metadata. Defaults to time.Now.
	Now func() time.Time
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil env uses poster.NewEnv.
func NewRunner(env *poster.Env, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if env == nil {
		env = poster.NewEnv(logger)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Runner{
		Env:    env,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Now:    time.Now,
	}
}

// Execute runs render and encode for one request, consulting the artifact
// cache first unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	req := opts.Request

	result := &Result{
		Template:  req.Template(),
		Name:      req.BaseName(),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}

	keys, err := r.artifactKeys(req, opts.Formats)
	if err != nil {
		return nil, err
	}

	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, keys); ok {
			result.Artifacts = artifacts
			result.CacheInfo.Hit = true
			opts.Logger.Debug("artifacts from cache", "template", result.Template, "formats", opts.Formats)
			return result, nil
		}
	}

	renderStart := time.Now()
	p, err := r.Render(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.Warnings = p.Warnings
	for _, w := range p.Warnings {
		opts.Logger.Warn(w, "template", result.Template)
	}
	opts.Logger.Info("rendered poster",
		"template", result.Template,
		"size", fmt.Sprintf("%dx%d", p.Image.Bounds().Dx(), p.Image.Bounds().Dy()),
		"duration", result.Stats.RenderTime)

	encodeStart := time.Now()
	artifacts, err := r.Encode(ctx, p, opts.Formats)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.EncodeTime = time.Since(encodeStart)
	opts.Logger.Info("encoded outputs",
		"formats", opts.Formats,
		"duration", result.Stats.EncodeTime)

	for format, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[format], data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache set failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return result, nil
}

// lookup returns the cached artifacts when every format is present.
func (r *Runner) lookup(ctx context.Context, keys map[string]string) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(keys))
	for format, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		artifacts[format] = data
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return artifacts, true
}

// artifactKeys derives one cache key per format.
func (r *Runner) artifactKeys(req poster.Request, formats []string) (map[string]string, error) {
	requestHash, err := cache.HashJSON(struct {
		Template string         `json:"template"`
		Request  poster.Request `json:"request"`
	}{req.Template(), req})
	if err != nil {
		return nil, fmt.Errorf("hash request: %w", err)
	}
	settingsHash, err := r.settingsHash()
	if err != nil {
		return nil, fmt.Errorf("hash settings: %w", err)
	}
	keys := make(map[string]string, len(formats))
	for _, f := range formats {
		keys[f] = r.Keyer.ArtifactKey(requestHash, cache.ArtifactKeyOpts{
			Template:     req.Template(),
			Format:       f,
			SettingsHash: settingsHash,
		})
	}
	return keys, nil
}

func (r *Runner) settingsHash() (string, error) {
	s := r.Env.Settings
	loc := "UTC"
	if s.Location != nil {
		loc = s.Location.String()
	}
	return cache.HashJSON(struct {
		TitleFont     string   `json:"title_font"`
		BodyFont      string   `json:"body_font"`
		FallbackFonts []string `json:"fallback_fonts"`
		SiteText      string   `json:"site_text"`
		QuestionTitle string   `json:"question_title"`
		QuestionBody  string   `json:"question_body"`
		ThanksText    string   `json:"thanks_text"`
		Location      string   `json:"location"`
		Assets        string   `json:"assets"`
	}{s.TitleFont, s.BodyFont, s.FallbackFonts, s.SiteText, s.QuestionTitle, s.QuestionBody, s.ThanksText, loc, r.AssetsID})
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
