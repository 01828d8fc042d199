// Package config loads posterkit settings from a TOML file.
//
// Every field has a built-in default (see Default), so a config file only
// needs the values it changes:
//
//	[site]
//	text = "Forever-Canadian.ca"
//	url = "https://forever-canadian.ca"
//	timezone = "America/Edmonton"
//
//	[fonts]
//	title = "/usr/share/fonts/Aptos-ExtraBold.ttf"
//
//	[assets]
//	logo = "assets/logo.png"
//
//	[cache]
//	backend = "redis"
//	redis = { addr = "localhost:6379" }
//
//	[[library]]
//	title = "Logos"
//	url = "https://drive.example.org/logos"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/posterkit/pkg/assets"
	"github.com/matzehuels/posterkit/pkg/cache"
	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/fonts"
	"github.com/matzehuels/posterkit/pkg/poster"
)

// AppName names the config and cache directories.
const AppName = "posterkit"

// Config is the complete configuration.
type Config struct {
	Site    Site      `toml:"site"`
	Fonts   Fonts     `toml:"fonts"`
	Assets  Assets    `toml:"assets"`
	Event   Event     `toml:"event"`
	Server  Server    `toml:"server"`
	Cache   Cache     `toml:"cache"`
	Convert Convert   `toml:"convert"`
	Library []Library `toml:"library"`
}

// Site holds organisation-wide poster texts.
type Site struct {
	// Text is the site address printed on posters.
	Text string `toml:"text"`
	// URL is encoded in the generated QR code. Empty disables the QR code
	// unless assets.qrcode is set.
	URL      string `toml:"url"`
	Timezone string `toml:"timezone"`
	Thanks   string `toml:"thanks"`
}

// Fonts selects font files. "builtin:gobold" and "builtin:goregular" name
// the embedded Go fonts.
type Fonts struct {
	Title    string   `toml:"title"`
	Body     string   `toml:"body"`
	Fallback []string `toml:"fallback"`
}

// Assets are optional image paths.
type Assets struct {
	Logo       string `toml:"logo"`
	Background string `toml:"background"`
	QRCode     string `toml:"qrcode"`
}

// Event holds the petition question printed on event posters.
type Event struct {
	QuestionTitle string `toml:"question_title"`
	QuestionBody  string `toml:"question_body"`
}

// Server configures the web UI.
type Server struct {
	Addr           string        `toml:"addr"`
	ArtifactTTL    time.Duration `toml:"artifact_ttl"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MemoryEntries int    `toml:"memory_entries"`
	Redis         Redis  `toml:"redis"`
}

// Redis configures the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Convert configures the batch converter.
type Convert struct {
	DPI      int    `toml:"dpi"`
	Jobs     int    `toml:"jobs"`
	Soffice  string `toml:"soffice"`
	Pdftoppm string `toml:"pdftoppm"`
}

// Library is an external folder of ready-made assets shown by the web UI.
type Library struct {
	Title string `toml:"title"`
	URL   string `toml:"url"`
}

// Default returns the built-in configuration.
func Default() Config {
	s := poster.DefaultSettings()
	return Config{
		Site: Site{
			Text:     s.SiteText,
			URL:      "https://forever-canadian.ca",
			Timezone: poster.DefaultTimezone,
			Thanks:   s.ThanksText,
		},
		Fonts: Fonts{
			Title:    fonts.BuiltinBold,
			Body:     fonts.BuiltinRegular,
			Fallback: append([]string(nil), fonts.DefaultFallback...),
		},
		Event: Event{
			QuestionTitle: s.QuestionTitle,
			QuestionBody:  s.QuestionBody,
		},
		Server: Server{
			Addr:           ":8080",
			ArtifactTTL:    cache.TTLHandoff,
			RequestTimeout: 60 * time.Second,
		},
		Cache: Cache{
			Backend:       cache.BackendMemory,
			MemoryEntries: 64,
		},
		Convert: Convert{
			DPI:      300,
			Soffice:  "soffice",
			Pdftoppm: "pdftoppm",
		},
	}
}

// Load reads path over the defaults. Keys that match no field are returned
// as warnings rather than errors.
func Load(path string) (Config, []string, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return cfg, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown config key %q", key.String()))
	}
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return cfg, warnings, err
	}
	return cfg, warnings, nil
}

// LoadDefault loads the config at DefaultPath when it exists and returns
// Default otherwise. The returned path is empty when no file was read.
func LoadDefault() (Config, string, []string, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), "", nil, nil
	}
	cfg, warnings, err := Load(path)
	return cfg, path, warnings, err
}

// DefaultPath returns $XDG_CONFIG_HOME/posterkit/config.toml, or
// ~/.config/posterkit/config.toml when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// resolvePaths makes relative asset and font paths relative to the config
// file's directory.
func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || fonts.IsBuiltin(p) || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Assets.Logo = abs(c.Assets.Logo)
	c.Assets.Background = abs(c.Assets.Background)
	c.Assets.QRCode = abs(c.Assets.QRCode)
	c.Fonts.Title = abs(c.Fonts.Title)
	c.Fonts.Body = abs(c.Fonts.Body)
	for i, f := range c.Fonts.Fallback {
		c.Fonts.Fallback[i] = abs(f)
	}
	if c.Cache.Dir != "" {
		c.Cache.Dir = abs(c.Cache.Dir)
	}
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "site.timezone %q", c.Site.Timezone)
	}
	if c.Site.URL != "" {
		if err := errors.ValidateURL(c.Site.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "site.url")
		}
	}
	switch c.Cache.Backend {
	case "", cache.BackendNull, cache.BackendMemory, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (must be one of: null, memory, file, redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
	}
	if c.Convert.DPI < 0 || c.Convert.Jobs < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "convert.dpi and convert.jobs must not be negative")
	}
	if c.Server.ArtifactTTL < 0 || c.Server.RequestTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server durations must not be negative")
	}
	for i, l := range c.Library {
		if strings.TrimSpace(l.Title) == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "library[%d].title is required", i)
		}
		if err := errors.ValidateURL(l.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "library[%d].url", i)
		}
	}
	return nil
}

// Settings converts the config into poster settings.
func (c Config) Settings() (poster.Settings, error) {
	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil {
		return poster.Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "site.timezone %q", c.Site.Timezone)
	}
	return poster.Settings{
		TitleFont:     c.Fonts.Title,
		BodyFont:      c.Fonts.Body,
		FallbackFonts: c.Fonts.Fallback,
		SiteText:      c.Site.Text,
		QuestionTitle: c.Event.QuestionTitle,
		QuestionBody:  c.Event.QuestionBody,
		ThanksText:    c.Site.Thanks,
		Location:      loc,
	}, nil
}

// AssetPaths returns the configured image paths.
func (c Config) AssetPaths() assets.Paths {
	return assets.Paths{
		Logo:       c.Assets.Logo,
		Background: c.Assets.Background,
		QRCode:     c.Assets.QRCode,
	}
}

// AssetsID fingerprints the asset configuration for cache keys. File
// modification times are included so replacing an image invalidates
// cached posters.
func (c Config) AssetsID() string {
	type entry struct {
		Path    string `json:"path"`
		ModTime int64  `json:"mtime"`
	}
	var entries []entry
	for _, p := range []string{c.Assets.Logo, c.Assets.Background, c.Assets.QRCode} {
		e := entry{Path: p}
		if p != "" {
			if info, err := os.Stat(p); err == nil {
				e.ModTime = info.ModTime().UnixNano()
			}
		}
		entries = append(entries, e)
	}
	id, _ := cache.HashJSON(struct {
		Entries []entry `json:"entries"`
		URL     string  `json:"url"`
	}{entries, c.Site.URL})
	return id
}

// CacheOptions returns options for cache.Open. defaultDir is used by the
// file backend when cache.dir is unset.
func (c Config) CacheOptions(defaultDir string) cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           dir,
		MemoryEntries: c.Cache.MemoryEntries,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
		},
	}
}
