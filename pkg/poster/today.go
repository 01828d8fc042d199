package poster

import (
	"context"

	"github.com/matzehuels/posterkit/pkg/sink"
	"github.com/matzehuels/posterkit/pkg/textfit"
)

const (
	todayWidth  = 2550
	todayHeight = 3300

	todayTitleSize  = 190
	todayMinSize    = 120
	todayThanksSize = 90
	todaySiteSize   = 75
	todayMargin     = 80
	todayRule       = 18
)

type todayTemplate struct{}

func (todayTemplate) Name() string  { return KindToday }
func (todayTemplate) Title() string { return "Today's date" }
func (todayTemplate) Description() string {
	return "Today's date in long and numeric form between red rules"
}
func (todayTemplate) Size() (int, int) { return todayWidth, todayHeight }
func (todayTemplate) Page() sink.Page  { return sink.Letter }

func (t todayTemplate) Render(ctx context.Context, env *Env, r Request) (*Poster, error) {
	req, ok := r.(TodayRequest)
	if !ok {
		return nil, wrongRequest(t, r)
	}
	titleFont, _, err := env.resolveFonts()
	if err != nil {
		return nil, err
	}
	sess := env.Fonts.Session()
	defer sess.Close()

	c := newCanvas(todayWidth, todayHeight, sess, colorWhite)
	cx := todayWidth / 2

	top := todayHeight * 7 / 100
	if logo := env.Assets.Logo; logo != nil {
		top += c.pasteCentered(logo, todayWidth*0.40, todayHeight*0.40, top) + 20
	}

	y := top + 80
	if _, err := c.textTop("TODAY'S DATE IS:", titleFont, todayTitleSize, cx, y, colorBlack); err != nil {
		return nil, err
	}
	y += todayTitleSize + 50
	c.hrule(todayMargin, todayWidth-todayMargin, y, todayRule, colorRed)

	date := req.Date.In(env.location())
	long := LongDate(date)
	fit, err := textfit.FitWidth(long, sess.Measurer(titleFont), todayWidth-2*todayMargin, todayMinSize, todayTitleSize)
	if err != nil {
		return nil, err
	}

	y += 50
	if _, err := c.textTop(long, titleFont, fit.Size, cx, y, colorRed); err != nil {
		return nil, err
	}
	y += todayTitleSize + 100
	if _, err := c.textTop(NumericDate(date), titleFont, todayTitleSize, cx, y, colorRed); err != nil {
		return nil, err
	}
	y += todayTitleSize + 50
	c.hrule(todayMargin, todayWidth-todayMargin, y, todayRule, colorRed)

	y += 50
	if _, err := c.textTop(env.Settings.ThanksText, titleFont, todayThanksSize, cx, y, colorBlack); err != nil {
		return nil, err
	}

	if _, err := c.textTop(env.Settings.SiteText, titleFont, todaySiteSize, cx, todayHeight*80/100, colorBlack); err != nil {
		return nil, err
	}
	if qr := env.Assets.QRCode; qr != nil {
		c.pasteCentered(qr, todayWidth*0.15, todayHeight*0.15, todayHeight*85/100)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Poster{
		Template: KindToday,
		Image:    c.image(),
		Name:     req.BaseName(),
		Page:     t.Page(),
	}, nil
}
