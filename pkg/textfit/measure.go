package textfit

import "fmt"

// Measurer reports the rendered extent of a string at a font size.
//
// Width is the horizontal advance in pixels. Height is the vertical extent of
// the rendered glyphs (ascent above the baseline plus descent below it); the
// empty string measures 0 x 0. Implementations must be deterministic for a
// fixed (font, text, size).
type Measurer interface {
	Measure(text string, size int) (width, height int, err error)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(text string, size int) (width, height int, err error)

// Measure calls f(text, size).
func (f MeasurerFunc) Measure(text string, size int) (int, int, error) {
	return f(text, size)
}

// Box is a drawing region in pixels. Left and Top give its origin.
type Box struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Validate reports whether b has a positive width and height.
func (b Box) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return &BoxError{Box: b}
	}
	return nil
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() int { return b.Left + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() int { return b.Top + b.Height }

// BoxError is returned by Box.Validate for degenerate boxes.
type BoxError struct {
	Box Box
}

func (e *BoxError) Error() string {
	return fmt.Sprintf("textfit: degenerate box %dx%d", e.Box.Width, e.Box.Height)
}
