// Package cli implements the posterkit command-line interface.
//
// # Commands
//
//   - render: draw an event, blank-space or today's-date poster to PNG/PDF
//   - serve: run the web UI
//   - convert: rasterise the first page of every PPTX/PDF in a folder
//   - fit: debug the auto-fit text engine
//   - templates: list the poster templates
//   - cache: manage the artifact cache
//
// # Configuration
//
// Settings come from a TOML file (--config, or
// $XDG_CONFIG_HOME/posterkit/config.toml when present); see package config.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the command context (see loggerFromContext).
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/posterkit/pkg/assets"
	"github.com/matzehuels/posterkit/pkg/cache"
	"github.com/matzehuels/posterkit/pkg/config"
	"github.com/matzehuels/posterkit/pkg/pipeline"
	"github.com/matzehuels/posterkit/pkg/poster"
)

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads --config, or the default config file when it exists.
func (c *CLI) loadConfig() error {
	var (
		cfg      config.Config
		path     = c.configPath
		warnings []string
		err      error
	)
	if path != "" {
		cfg, warnings, err = config.Load(path)
	} else {
		cfg, path, warnings, err = config.LoadDefault()
	}
	for _, w := range warnings {
		c.Logger.Warn(w, "config", path)
	}
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = cfg
	return nil
}

// newEnv builds the poster environment from the loaded config.
func (c *CLI) newEnv() (*poster.Env, error) {
	settings, err := c.cfg.Settings()
	if err != nil {
		return nil, err
	}
	env := poster.NewEnv(c.Logger)
	env.Settings = settings

	set, err := assets.NewStore(c.Logger).Load(c.cfg.AssetPaths(), c.cfg.Site.URL)
	if err != nil {
		return nil, err
	}
	env.Assets = set
	return env, nil
}

// cacheMode selects how a command uses the artifact cache.
type cacheMode int

const (
	// cacheCLI keeps artifacts between runs: a configured memory backend
	// is replaced by the file cache.
	cacheCLI cacheMode = iota
	// cacheServer uses the configured backend as is.
	cacheServer
	// cacheOff disables caching.
	cacheOff
)

func (c *CLI) openCache(ctx context.Context, mode cacheMode) (cache.Cache, error) {
	if mode == cacheOff {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	opts := c.cfg.CacheOptions(dir)
	if mode == cacheCLI && opts.Backend == cache.BackendMemory {
		if opts.Dir == "" {
			return cache.NewNullCache(), nil
		}
		opts.Backend = cache.BackendFile
	}
	return cache.Open(ctx, opts)
}

// newRunner creates a pipeline runner for env.
func (c *CLI) newRunner(ctx context.Context, env *poster.Env, mode cacheMode) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, mode)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(env, store, nil, c.Logger)
	r.AssetsID = c.cfg.AssetsID()
	return r, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/posterkit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// isInteractive reports whether stdin and stdout are terminals.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
