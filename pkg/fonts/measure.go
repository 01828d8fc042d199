package fonts

import (
	"golang.org/x/image/font"
)

// Measurer measures rendered text for a single font source.
//
// Width is the advance of the string. Height is the ink extent: the distance
// from the highest point above the baseline to the lowest point below it,
// across the glyphs actually drawn. The empty string measures 0x0.
type Measurer struct {
	session *Session
	source  string
}

// Source returns the font source the measurer uses.
func (m *Measurer) Source() string { return m.source }

// Measure implements textfit.Measurer.
func (m *Measurer) Measure(text string, size int) (int, int, error) {
	face, err := m.session.Face(m.source, size)
	if err != nil {
		return 0, 0, err
	}
	if text == "" {
		return 0, 0, nil
	}
	adv := font.MeasureString(face, text)
	bounds, _ := font.BoundString(face, text)
	return adv.Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil(), nil
}

// Bounds returns the ink bounds of text relative to its baseline origin,
// in whole pixels: minY is negative above the baseline.
func (m *Measurer) Bounds(text string, size int) (minX, minY, maxX, maxY int, err error) {
	face, err := m.session.Face(m.source, size)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	b, _ := font.BoundString(face, text)
	return b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil(), nil
}

// Ascent returns the face ascent at size in pixels.
func (m *Measurer) Ascent(size int) (int, error) {
	face, err := m.session.Face(m.source, size)
	if err != nil {
		return 0, err
	}
	return face.Metrics().Ascent.Ceil(), nil
}
