package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/posterkit/pkg/poster"
)

// eventForm mirrors the event form fields as strings so invalid input can
// be shown back to the user unchanged.
type eventForm struct {
	City     string
	Date     string
	Start    string
	End      string
	Address1 string
	Address2 string
	Info1    string
	Info2    string
	Question bool
}

func newEventForm(req poster.EventRequest) eventForm {
	return eventForm{
		City:     req.City,
		Date:     req.Date.Format(poster.InputDateLayout),
		Start:    req.Start.Input(),
		End:      req.EndClock().Input(),
		Address1: req.Address1,
		Address2: req.Address2,
		Info1:    req.Info1,
		Info2:    req.Info2,
		Question: req.ShowQuestion,
	}
}

func parseEventForm(r *http.Request) eventForm {
	return eventForm{
		City:     r.PostFormValue("city"),
		Date:     r.PostFormValue("date"),
		Start:    r.PostFormValue("start"),
		End:      r.PostFormValue("end"),
		Address1: r.PostFormValue("address1"),
		Address2: r.PostFormValue("address2"),
		Info1:    r.PostFormValue("info1"),
		Info2:    r.PostFormValue("info2"),
		Question: r.PostFormValue("question") != "",
	}
}

// request converts the form. An empty end time means start plus
// poster.DefaultDuration.
func (f eventForm) request(loc *time.Location) (poster.EventRequest, error) {
	date, err := poster.ParseDate(f.Date, loc)
	if err != nil {
		return poster.EventRequest{}, err
	}
	start, err := poster.ParseClock(f.Start)
	if err != nil {
		return poster.EventRequest{}, err
	}
	req := poster.EventRequest{
		City:         strings.TrimSpace(f.City),
		Date:         date,
		Start:        start,
		Address1:     strings.TrimSpace(f.Address1),
		Address2:     strings.TrimSpace(f.Address2),
		Info1:        strings.TrimSpace(f.Info1),
		Info2:        strings.TrimSpace(f.Info2),
		ShowQuestion: f.Question,
	}
	if strings.TrimSpace(f.End) != "" {
		end, err := poster.ParseClock(f.End)
		if err != nil {
			return poster.EventRequest{}, err
		}
		req.End = &end
	}
	return req, nil
}

type blankForm struct {
	Text string
}

type todayForm struct {
	Date string
}
