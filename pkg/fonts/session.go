package fonts

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/posterkit/pkg/errors"
)

// DPI at which faces are created. At 72 DPI one point is one pixel, so a
// face of size N has an em of N pixels.
const DPI = 72

type faceKey struct {
	source string
	size   int
}

// Session is a per-render set of sized faces. It must not be shared between
// goroutines.
type Session struct {
	loader *Loader
	faces  map[faceKey]font.Face
}

// Session opens a new face session backed by the loader's parsed fonts.
func (l *Loader) Session() *Session {
	return &Session{loader: l, faces: make(map[faceKey]font.Face)}
}

// Face returns the face for source at size pixels, creating it on first use.
func (s *Session) Face(source string, size int) (font.Face, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %d", size)
	}
	key := faceKey{source, size}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	parsed, err := s.loader.Font(source)
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontLoad, err, "create face %s@%d", source, size)
	}
	s.faces[key] = f
	return f, nil
}

// Faces returns the number of faces opened in this session.
func (s *Session) Faces() int { return len(s.faces) }

// Close releases every face opened by the session.
func (s *Session) Close() error {
	var first error
	for k, f := range s.faces {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
		delete(s.faces, k)
	}
	return first
}

// Measurer returns a text measurer for one font source.
func (s *Session) Measurer(source string) *Measurer {
	return &Measurer{session: s, source: source}
}
