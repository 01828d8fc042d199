// Package poster renders the fixed-size posters: the event details poster,
// the blank-space poster and the today's-date poster.
//
// Each poster kind is a [Template]. Templates draw onto a gg canvas using
// fonts from a per-render [fonts.Session] and size their free text with the
// textfit engine. A render is a pure function of the request and the
// environment, so repeated renders of the same request produce identical
// pixels.
package poster

import (
	"context"
	"image"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/posterkit/pkg/assets"
	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/fonts"
	"github.com/matzehuels/posterkit/pkg/sink"
)

// DPI is the print resolution every template is laid out for.
const DPI = 300

// Template names.
const (
	KindEvent = "event"
	KindBlank = "blank"
	KindToday = "today"
)

// Request is the input to a template. Each template accepts its own request
// type.
type Request interface {
	Template() string
	Validate() error
	// BaseName is the suggested file name without extension.
	BaseName() string
}

// Template renders one kind of poster.
type Template interface {
	Name() string
	Title() string
	Description() string
	Size() (width, height int)
	Page() sink.Page
	// Render draws the poster. The request must be of the template's own
	// request type.
	Render(ctx context.Context, env *Env, req Request) (*Poster, error)
}

// Poster is a rendered poster.
type Poster struct {
	Template string
	Image    image.Image
	// Name is the suggested file name without extension.
	Name     string
	Page     sink.Page
	Warnings []string
}

// Filename returns the suggested download name for a format.
func (p *Poster) Filename(format string) string {
	return p.Name + "." + format
}

// DefaultTimezone is the zone in which "today" and "now" defaults are taken.
const DefaultTimezone = "America/Edmonton"

// Settings are the organisation-wide texts and fonts shared by templates.
type Settings struct {
	TitleFont     string
	BodyFont      string
	// FallbackFonts are tried, in order, when TitleFont cannot be loaded.
	FallbackFonts []string
	SiteText      string
	QuestionTitle string
	QuestionBody  string
	ThanksText    string
	Location      *time.Location
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		TitleFont:     fonts.BuiltinBold,
		BodyFont:      fonts.BuiltinRegular,
		FallbackFonts: fonts.DefaultFallback,
		SiteText:      "Forever-Canadian.ca",
		QuestionTitle: "Sign the Petition:",
		QuestionBody:  "Do you agree that Alberta should remain in Canada?",
		ThanksText:    "Thanks for agreeing that Alberta should remain in Canada.",
		Location:      defaultLocation(),
	}
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Env is everything a template needs besides the request.
type Env struct {
	Fonts    *fonts.Loader
	Assets   assets.Set
	Settings Settings
	Logger   *log.Logger
}

// NewEnv creates an environment with default settings, no assets and a
// fresh font loader.
func NewEnv(logger *log.Logger) *Env {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Env{
		Fonts:    fonts.NewLoader(logger),
		Settings: DefaultSettings(),
		Logger:   logger,
	}
}

func (e *Env) location() *time.Location {
	if e.Settings.Location == nil {
		return time.UTC
	}
	return e.Settings.Location
}

var registry = map[string]Template{
	KindEvent: eventTemplate{},
	KindBlank: blankTemplate{},
	KindToday: todayTemplate{},
}

// Lookup returns the template with the given name.
func Lookup(name string) (Template, error) {
	t, ok := registry[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "unknown template %q (available: %v)", name, Names())
	}
	return t, nil
}

// Templates returns every template sorted by name.
func Templates() []Template {
	out := make([]Template, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name])
	}
	return out
}

// Names returns the sorted template names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render validates req and renders it with its template.
func Render(ctx context.Context, env *Env, req Request) (*Poster, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request is required")
	}
	t, err := Lookup(req.Template())
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.Render(ctx, env, req)
}

func wrongRequest(t Template, req Request) error {
	return errors.New(errors.ErrCodeInvalidInput, "template %s cannot render a %s request", t.Name(), req.Template())
}

// resolveFonts picks the title and body font sources, falling back through
// Settings.FallbackFonts when a configured font cannot be loaded. The
// built-in bold face always ends the chain.
func (e *Env) resolveFonts() (title, body string, err error) {
	chain := append([]string{e.Settings.TitleFont}, e.Settings.FallbackFonts...)
	title, err = e.Fonts.Resolve(append(chain, fonts.BuiltinBold)...)
	if err != nil {
		return "", "", err
	}
	if title != e.Settings.TitleFont && e.Settings.TitleFont != "" {
		e.Logger.Warn("title font unavailable, using fallback", "font", e.Settings.TitleFont, "fallback", title)
	}
	body, err = e.Fonts.Resolve(e.Settings.BodyFont, fonts.BuiltinRegular)
	if err != nil {
		return "", "", err
	}
	if body != e.Settings.BodyFont && e.Settings.BodyFont != "" {
		e.Logger.Warn("body font unavailable, using fallback", "font", e.Settings.BodyFont, "fallback", body)
	}
	return title, body, nil
}
