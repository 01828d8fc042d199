package poster

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/posterkit/pkg/assets"
	"github.com/matzehuels/posterkit/pkg/sink"
	"github.com/matzehuels/posterkit/pkg/textfit"
)

// Event poster geometry (8.5x11in at 300 DPI).
const (
	eventWidth  = 2550
	eventHeight = 3300

	eventCitySize     = 300
	eventCityMinSize  = 120
	eventSubtitleSize = 130
	eventBodySize     = 90
	eventLineGap      = 20
)

type eventTemplate struct{}

func (eventTemplate) Name() string  { return KindEvent }
func (eventTemplate) Title() string { return "Event details" }
func (eventTemplate) Description() string {
	return "City, date, address and time over the background, with logo and QR code"
}
func (eventTemplate) Size() (int, int) { return eventWidth, eventHeight }
func (eventTemplate) Page() sink.Page  { return sink.Letter }

func (t eventTemplate) Render(ctx context.Context, env *Env, r Request) (*Poster, error) {
	req, ok := r.(EventRequest)
	if !ok {
		return nil, wrongRequest(t, r)
	}
	titleFont, bodyFont, err := env.resolveFonts()
	if err != nil {
		return nil, err
	}
	sess := env.Fonts.Session()
	defer sess.Close()

	c := newCanvas(eventWidth, eventHeight, sess, colorSky)
	if bg := env.Assets.Background; bg != nil {
		c.paste(assets.Cover(bg, eventWidth, eventHeight), 0, 0)
	}
	cx := eventWidth / 2

	top := eventHeight * 4 / 100
	if logo := env.Assets.Logo; logo != nil {
		top += c.pasteCentered(logo, eventWidth*0.30, eventHeight*0.18, top) + 20
	}

	// Casers are stateful; one per render.
	city := cases.Upper(language.Und).String(req.City)
	margin := eventWidth * 5 / 100
	fit, err := textfit.FitWidth(city, sess.Measurer(titleFont), eventWidth-2*margin, eventCityMinSize, eventCitySize)
	if err != nil {
		return nil, err
	}
	var warnings []string
	if !fit.Fits {
		warnings = append(warnings, "city name is wider than the poster at the minimum size")
	}
	cityBottom, err := c.textTop(city, titleFont, fit.Size, cx, top+40, colorCityRed)
	if err != nil {
		return nil, err
	}

	y := cityBottom + 60
	loc := env.location()
	steps := []textStep{
		{LongDate(req.Date.In(loc)), titleFont, eventSubtitleSize, colorWhite, eventSubtitleSize + eventLineGap},
		{req.Address1, bodyFont, eventBodySize, colorWhite, eventBodySize + eventLineGap},
		{req.Address2, bodyFont, eventBodySize, colorWhite, eventBodySize + eventLineGap},
		{TimeRange(req.Start, req.EndClock()), titleFont, eventSubtitleSize, colorWhite, 400},
	}
	if y, err = c.steps(steps, cx, y); err != nil {
		return nil, err
	}

	if req.ShowQuestion {
		question := []textStep{
			{env.Settings.QuestionTitle, titleFont, eventSubtitleSize, colorRed, eventSubtitleSize + eventLineGap},
			{env.Settings.QuestionBody, bodyFont, eventBodySize, colorRed, 0},
		}
		if y, err = c.steps(question, cx, y); err != nil {
			return nil, err
		}
	}

	y += 250
	info := []textStep{
		{req.Info1, bodyFont, eventBodySize, colorBlack, eventBodySize + eventLineGap},
		{req.Info2, bodyFont, eventBodySize, colorBlack, 0},
	}
	if _, err = c.steps(info, cx, y); err != nil {
		return nil, err
	}

	if _, err := c.textTop(env.Settings.SiteText, bodyFont, eventBodySize, cx, eventHeight*80/100, colorBlack); err != nil {
		return nil, err
	}
	if qr := env.Assets.QRCode; qr != nil {
		c.pasteCentered(qr, eventWidth*0.15, eventHeight*0.15, eventHeight*85/100)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Poster{
		Template: KindEvent,
		Image:    c.image(),
		Name:     req.BaseName(),
		Page:     t.Page(),
		Warnings: warnings,
	}, nil
}
