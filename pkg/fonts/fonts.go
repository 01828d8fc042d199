// Package fonts loads TrueType/OpenType fonts and measures text with them.
//
// Fonts come from two places: the Go fonts compiled into the binary
// (referenced as "builtin:gobold" and "builtin:goregular") and font files on
// disk. A [Loader] parses each source once and shares the parsed font across
// goroutines. Sized faces are not safe for concurrent rasterisation, so every
// render opens its own [Session], which caches faces by (source, size) for the
// duration of that render.
//
// A [Measurer] bound to a session implements textfit.Measurer:
//
//	loader := fonts.NewLoader(logger)
//	sess := loader.Session()
//	defer sess.Close()
//	m := sess.Measurer(fonts.BuiltinBold)
//	res, err := textfit.Fit(text, m, opts)
package fonts

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/posterkit/pkg/errors"
)

// Built-in font sources.
const (
	BuiltinBold    = "builtin:gobold"
	BuiltinRegular = "builtin:goregular"
)

const builtinPrefix = "builtin:"

var builtin = map[string][]byte{
	BuiltinBold:    gobold.TTF,
	BuiltinRegular: goregular.TTF,
}

// DefaultFallback is tried, in order, when a configured font cannot be
// loaded. It always ends in a built-in font so resolution cannot fail.
var DefaultFallback = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/Library/Fonts/Arial Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
	BuiltinBold,
}

// IsBuiltin reports whether source names a compiled-in font.
func IsBuiltin(source string) bool {
	_, ok := builtin[source]
	return ok
}

// Builtins returns the names of the compiled-in fonts.
func Builtins() []string {
	return []string{BuiltinBold, BuiltinRegular}
}

// Loader parses fonts on first use and keeps them for the life of the process.
// It is safe for concurrent use.
type Loader struct {
	mu     sync.RWMutex
	fonts  map[string]*opentype.Font
	logger *log.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		fonts:  make(map[string]*opentype.Font),
		logger: logger,
	}
}

// Font returns the parsed font for source, parsing it on the first request.
func (l *Loader) Font(source string) (*opentype.Font, error) {
	l.mu.RLock()
	f, ok := l.fonts[source]
	l.mu.RUnlock()
	if ok {
		return f, nil
	}

	data, err := readSource(source)
	if err != nil {
		return nil, err
	}
	f, err = opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "parse font %s", source)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.fonts[source]; ok {
		return existing, nil
	}
	l.fonts[source] = f
	l.logger.Debug("loaded font", "source", source)
	return f, nil
}

// Resolve returns the first source in the chain that loads. Empty entries
// are skipped. When every entry fails, the error of the last attempt is
// returned.
func (l *Loader) Resolve(chain ...string) (string, error) {
	var lastErr error
	for _, src := range chain {
		if strings.TrimSpace(src) == "" {
			continue
		}
		if _, err := l.Font(src); err != nil {
			l.logger.Debug("font unavailable, trying next", "source", src, "error", err)
			lastErr = err
			continue
		}
		return src, nil
	}
	if lastErr == nil {
		lastErr = errors.New(errors.ErrCodeFontLoad, "no font sources given")
	}
	return "", lastErr
}

// Loaded returns the number of parsed fonts held by the loader.
func (l *Loader) Loaded() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.fonts)
}

func readSource(source string) ([]byte, error) {
	if data, ok := builtin[source]; ok {
		return data, nil
	}
	if strings.HasPrefix(source, builtinPrefix) {
		return nil, errors.New(errors.ErrCodeFontLoad, "unknown built-in font %q", source)
	}
	if err := errors.ValidatePath(source); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(source)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font file %s", source)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "read font %s", source)
	}
	return data, nil
}
