package poster

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/posterkit/pkg/errors"
)

// Field length limits.
const (
	maxLineLength  = 200
	maxBlankLength = errors.MaxTextLength
)

// DefaultDuration is the event length assumed when no end time is given.
const DefaultDuration = 2 * time.Hour

// Date and time layouts used on posters.
const (
	LongDateLayout    = "Monday, January 02, 2006"
	NumericDateLayout = "01/02/2006"
	FileDateLayout    = "01022006"
	ClockLayout       = "3:04 PM"
	InputDateLayout   = "2006-01-02"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

var clockLayouts = []string{"15:04", "3:04PM", "3:04 PM", "3:04pm", "3:04 pm", "15:04:05"}

// ParseClock parses "15:04" or "3:04 PM" style times.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return Clock{}, errors.New(errors.ErrCodeInvalidDate, "invalid time %q (use 15:04 or 3:04 PM)", s)
}

// ClockOf returns the time of day of t.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// Add returns the clock advanced by d, wrapping at midnight.
func (c Clock) Add(d time.Duration) Clock {
	mins := (c.Hour*60 + c.Minute + int(d/time.Minute)) % (24 * 60)
	if mins < 0 {
		mins += 24 * 60
	}
	return Clock{Hour: mins / 60, Minute: mins % 60}
}

// Valid reports whether the clock is within a day.
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// String formats the clock as "3:04 PM".
func (c Clock) String() string {
	return time.Date(2000, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format(ClockLayout)
}

// Input formats the clock as "15:04" for form fields.
func (c Clock) Input() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseDate parses a "2006-01-02" date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(InputDateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, errors.New(errors.ErrCodeInvalidDate, "invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// LongDate formats a date as "Monday, January 02, 2006".
func LongDate(t time.Time) string { return t.Format(LongDateLayout) }

// NumericDate formats a date as "01/02/2006".
func NumericDate(t time.Time) string { return t.Format(NumericDateLayout) }

// TimeRange formats "3:04 PM – 5:04 PM".
func TimeRange(start, end Clock) string {
	return start.String() + " – " + end.String()
}

// EventRequest describes an event details poster.
type EventRequest struct {
	City         string    `json:"city"`
	Date         time.Time `json:"date"`
	Start        Clock     `json:"start"`
	End          *Clock    `json:"end,omitempty"`
	Address1     string    `json:"address1"`
	Address2     string    `json:"address2,omitempty"`
	Info1        string    `json:"info1,omitempty"`
	Info2        string    `json:"info2,omitempty"`
	ShowQuestion bool      `json:"show_question"`
}

// NewEventRequest returns the form defaults: today's date, a start time of
// now and the question shown.
func NewEventRequest(now time.Time) EventRequest {
	return EventRequest{
		City:         "Municipality",
		Date:         now,
		Start:        ClockOf(now),
		Address1:     "Address Line 1",
		ShowQuestion: true,
	}
}

// Template implements Request.
func (r EventRequest) Template() string { return KindEvent }

// BaseName implements Request.
func (r EventRequest) BaseName() string {
	return errors.SanitizeFilename(r.City) + "_poster"
}

// EndClock returns the end time, defaulting to start plus DefaultDuration.
func (r EventRequest) EndClock() Clock {
	if r.End != nil {
		return *r.End
	}
	return r.Start.Add(DefaultDuration)
}

// Validate implements Request.
func (r EventRequest) Validate() error {
	if strings.TrimSpace(r.City) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "city is required")
	}
	if r.Date.IsZero() {
		return errors.New(errors.ErrCodeInvalidDate, "event date is required")
	}
	if !r.Start.Valid() || (r.End != nil && !r.End.Valid()) {
		return errors.New(errors.ErrCodeInvalidDate, "invalid event time")
	}
	for _, f := range []struct{ name, value string }{
		{"city", r.City},
		{"address line 1", r.Address1},
		{"address line 2", r.Address2},
		{"additional information 1", r.Info1},
		{"additional information 2", r.Info2},
	} {
		if err := errors.ValidateText(f.name, f.value, maxLineLength); err != nil {
			return err
		}
	}
	return nil
}

// BlankRequest describes a blank-space poster.
type BlankRequest struct {
	Text string `json:"text"`
}

// Template implements Request.
func (r BlankRequest) Template() string { return KindBlank }

// BaseName implements Request.
func (r BlankRequest) BaseName() string { return "fc_blank_space_poster" }

// Validate implements Request. Empty text is allowed.
func (r BlankRequest) Validate() error {
	return errors.ValidateText("text", r.Text, maxBlankLength)
}

// TodayRequest describes a today's-date poster.
type TodayRequest struct {
	Date time.Time `json:"date"`
}

// Template implements Request.
func (r TodayRequest) Template() string { return KindToday }

// BaseName implements Request.
func (r TodayRequest) BaseName() string {
	return r.Date.Format(FileDateLayout) + "_Date_Poster"
}

// Validate implements Request.
func (r TodayRequest) Validate() error {
	if r.Date.IsZero() {
		return errors.New(errors.ErrCodeInvalidDate, "date is required")
	}
	return nil
}
