package poster

import (
	"context"

	"github.com/matzehuels/posterkit/pkg/assets"
	"github.com/matzehuels/posterkit/pkg/sink"
	"github.com/matzehuels/posterkit/pkg/textfit"
)

// Blank-space poster geometry (11x8.5in at 300 DPI).
const (
	blankWidth   = 3300
	blankHeight  = 2550
	blankBorder  = 100
	blankDivider = 20
	blankPadding = 160
	blankGutter  = 80

	blankMinSize  = 16
	blankMaxSize  = 300
	blankLineGap  = 0.15
	blankSiteSize = 75
	blankSiteGap  = 30
	blankLogoSize = 60
)

type blankTemplate struct{}

func (blankTemplate) Name() string  { return KindBlank }
func (blankTemplate) Title() string { return "Blank space" }
func (blankTemplate) Description() string {
	return "Free text auto-sized into the top half, logo and QR code below"
}
func (blankTemplate) Size() (int, int) { return blankWidth, blankHeight }
func (blankTemplate) Page() sink.Page  { return sink.PageForImage(blankWidth, blankHeight, DPI) }

// blankLayout holds the derived regions of the blank-space poster.
type blankLayout struct {
	mid      int
	text     textfit.Box
	bottom   textfit.Box
	colWidth int
	leftX    int
	rightX   int
}

func newBlankLayout() blankLayout {
	innerLeft := blankBorder + blankPadding
	innerRight := blankWidth - blankBorder - blankPadding
	innerTop := blankBorder + blankPadding
	innerBottom := blankHeight - blankBorder - blankPadding
	mid := blankHeight / 2
	innerWidth := innerRight - innerLeft

	bottomTop := mid + blankPadding
	colWidth := innerWidth * 35 / 100
	total := colWidth*2 + blankGutter
	leftX := innerLeft + textfit.FloorDiv(innerWidth-total, 2)

	return blankLayout{
		mid: mid,
		text: textfit.Box{
			Left:   innerLeft,
			Top:    innerTop,
			Width:  max(1, innerWidth),
			Height: max(0, mid-blankPadding-innerTop),
		},
		bottom: textfit.Box{
			Left:   innerLeft,
			Top:    bottomTop,
			Width:  innerWidth,
			Height: max(1, innerBottom-bottomTop),
		},
		colWidth: colWidth,
		leftX:    leftX,
		rightX:   leftX + colWidth + blankGutter,
	}
}

func (t blankTemplate) Render(ctx context.Context, env *Env, r Request) (*Poster, error) {
	req, ok := r.(BlankRequest)
	if !ok {
		return nil, wrongRequest(t, r)
	}
	titleFont, _, err := env.resolveFonts()
	if err != nil {
		return nil, err
	}
	sess := env.Fonts.Session()
	defer sess.Close()

	l := newBlankLayout()
	c := newCanvas(blankWidth, blankHeight, sess, colorWhite)
	c.frame(blankBorder/2, blankBorder/2, blankWidth-blankBorder, blankHeight-blankBorder, blankBorder, colorRed)
	c.hrule(blankBorder, blankWidth-blankBorder, l.mid, blankDivider, colorRed)

	// Top half: free text.
	fit, placed, err := textfit.Layout(req.Text, sess.Measurer(titleFont), l.text, blankMinSize, blankMaxSize, blankLineGap)
	if err != nil {
		return nil, err
	}
	var warnings []string
	if !fit.Fits {
		warnings = append(warnings, "text does not fit the top half even at the minimum size")
		env.Logger.Warn("blank poster text overflows", "size", fit.Size, "lines", len(fit.Lines))
	}
	if err := c.placed(placed, titleFont, fit.Size, colorBlack); err != nil {
		return nil, err
	}
	env.Logger.Debug("fitted blank poster text", "size", fit.Size, "lines", len(fit.Lines), "fits", fit.Fits)

	// Bottom left: logo or placeholder.
	b := l.bottom
	if logo := env.Assets.Logo; logo != nil {
		scaled := assets.Fit(logo, float64(l.colWidth), float64(b.Height), false)
		c.paste(scaled, l.leftX, b.Top+textfit.FloorDiv(b.Height-scaled.Bounds().Dy(), 2))
	} else {
		c.rect(l.leftX, b.Top, l.colWidth, b.Height, colorPanel)
		c.frame(l.leftX, b.Top, l.colWidth, b.Height, 4, colorPanelRim)
		w, _, err := sess.Measurer(titleFont).Measure("LOGO", blankLogoSize)
		if err != nil {
			return nil, err
		}
		if err := c.textAscender("LOGO", titleFont, blankLogoSize, l.leftX+textfit.FloorDiv(l.colWidth-w, 2), b.Top+b.Height/2-30, colorMuted); err != nil {
			return nil, err
		}
	}

	// Bottom right: QR code over the site text.
	if err := c.qrBlock(env, titleFont, l); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Poster{
		Template: KindBlank,
		Image:    c.image(),
		Name:     req.BaseName(),
		Page:     t.Page(),
		Warnings: warnings,
	}, nil
}

func (c *canvas) qrBlock(env *Env, font string, l blankLayout) error {
	site := env.Settings.SiteText
	siteW, siteH := 0, 0
	if site != "" {
		var err error
		if siteW, siteH, err = c.sess.Measurer(font).Measure(site, blankSiteSize); err != nil {
			return err
		}
	}

	b := l.bottom
	qr := env.Assets.QRCode
	if qr == nil {
		if site == "" {
			return nil
		}
		x := l.rightX + textfit.FloorDiv(l.colWidth-siteW, 2)
		y := b.Top + textfit.FloorDiv(b.Height-siteH, 2)
		return c.textAscender(site, font, blankSiteSize, x, y, colorBlack)
	}

	scaled := assets.Fit(qr, float64(l.colWidth), float64(b.Height/2), false)
	qw, qh := scaled.Bounds().Dx(), scaled.Bounds().Dy()
	blockW := max(qw, siteW)
	blockH := qh + siteH
	if site != "" {
		blockH += blankSiteGap
	}
	blockX := l.rightX + textfit.FloorDiv(l.colWidth-blockW, 2)
	blockY := b.Top + textfit.FloorDiv(b.Height-blockH, 2)

	c.paste(scaled, blockX+textfit.FloorDiv(blockW-qw, 2), blockY)
	if site == "" {
		return nil
	}
	return c.textAscender(site, font, blankSiteSize, blockX+textfit.FloorDiv(blockW-siteW, 2), blockY+qh+blankSiteGap, colorBlack)
}
