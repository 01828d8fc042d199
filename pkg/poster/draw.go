package poster

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/posterkit/pkg/assets"
	"github.com/matzehuels/posterkit/pkg/fonts"
	"github.com/matzehuels/posterkit/pkg/textfit"
)

// Palette.
var (
	colorWhite    = color.RGBA{255, 255, 255, 255}
	colorBlack    = color.RGBA{0, 0, 0, 255}
	colorRed      = color.RGBA{255, 0, 0, 255}
	colorCityRed  = color.RGBA{0xE5, 0x39, 0x35, 255}
	colorSky      = color.RGBA{0x1F, 0x4E, 0x8C, 255}
	colorPanel    = color.RGBA{245, 245, 245, 255}
	colorPanelRim = color.RGBA{200, 200, 200, 255}
	colorMuted    = color.RGBA{150, 150, 150, 255}
)

// canvas wraps a gg context with the fonts of one render.
type canvas struct {
	dc   *gg.Context
	sess *fonts.Session
	w, h int
}

func newCanvas(w, h int, sess *fonts.Session, bg color.Color) *canvas {
	dc := gg.NewContext(w, h)
	dc.SetColor(bg)
	dc.Clear()
	return &canvas{dc: dc, sess: sess, w: w, h: h}
}

func (c *canvas) image() image.Image { return c.dc.Image() }

func (c *canvas) rect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// frame draws a rectangular outline of the given width whose outer edge is
// the rectangle (x, y, w, h).
func (c *canvas) frame(x, y, w, h, width int, col color.Color) {
	c.rect(x, y, w, width, col)
	c.rect(x, y+h-width, w, width, col)
	c.rect(x, y+width, width, h-2*width, col)
	c.rect(x+w-width, y+width, width, h-2*width, col)
}

// hrule draws a horizontal line of the given thickness centered on y.
func (c *canvas) hrule(x1, x2, y, thickness int, col color.Color) {
	c.rect(x1, y-thickness/2, x2-x1, thickness, col)
}

func (c *canvas) paste(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// pasteCentered scales img into maxW x maxH and pastes it horizontally
// centered with its top edge at y. It returns the pasted height.
func (c *canvas) pasteCentered(img image.Image, maxW, maxH float64, y int) int {
	scaled := assets.Fit(img, maxW, maxH, true)
	b := scaled.Bounds()
	c.paste(scaled, textfit.FloorDiv(c.w-b.Dx(), 2), y)
	return b.Dy()
}

func (c *canvas) face(source string, size int) error {
	f, err := c.sess.Face(source, size)
	if err != nil {
		return err
	}
	c.dc.SetFontFace(f)
	return nil
}

// textTop draws text horizontally centered on cx with the top of the font's
// ascender at y. It returns the bottom of the drawn ink.
func (c *canvas) textTop(text, source string, size int, cx, y int, col color.Color) (int, error) {
	m := c.sess.Measurer(source)
	ascent, err := m.Ascent(size)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return y + ascent, nil
	}
	w, _, err := m.Measure(text, size)
	if err != nil {
		return 0, err
	}
	if err := c.face(source, size); err != nil {
		return 0, err
	}
	baseline := y + ascent
	c.dc.SetColor(col)
	c.dc.DrawString(text, float64(cx)-float64(w)/2, float64(baseline))

	_, _, _, maxY, err := m.Bounds(text, size)
	if err != nil {
		return 0, err
	}
	return baseline + maxY, nil
}

// textAscender draws text with its left edge at x and the top of the
// font's ascender at y.
func (c *canvas) textAscender(text, source string, size int, x, y int, col color.Color) error {
	if text == "" {
		return nil
	}
	ascent, err := c.sess.Measurer(source).Ascent(size)
	if err != nil {
		return err
	}
	if err := c.face(source, size); err != nil {
		return err
	}
	c.dc.SetColor(col)
	c.dc.DrawString(text, float64(x), float64(y+ascent))
	return nil
}

// placed draws lines positioned by textfit.Place, each with the top of the
// font's ascender at the line's Y.
func (c *canvas) placed(lines []textfit.PlacedLine, source string, size int, col color.Color) error {
	for _, ln := range lines {
		if err := c.textAscender(ln.Text, source, size, ln.X, ln.Y, col); err != nil {
			return err
		}
	}
	return nil
}

// textStep is one centered line of a top-down text column.
type textStep struct {
	text    string
	font    string
	size    int
	color   color.Color
	advance int
}

// steps draws a column of centered lines starting at y, moving down by each
// step's advance. It returns the y after the last step.
func (c *canvas) steps(steps []textStep, cx, y int) (int, error) {
	for _, s := range steps {
		if _, err := c.textTop(s.text, s.font, s.size, cx, y, s.color); err != nil {
			return 0, err
		}
		y += s.advance
	}
	return y, nil
}

