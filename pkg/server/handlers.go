package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/pipeline"
	"github.com/matzehuels/posterkit/pkg/poster"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index", page{
		Title:     "Poster generators",
		Templates: templateCards(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "library", page{
		Title:   "Asset library",
		Library: s.library,
	})
}

func (s *Server) handleEventForm(w http.ResponseWriter, r *http.Request) {
	form := newEventForm(poster.NewEventRequest(s.today()))
	s.render(w, r, http.StatusOK, "event", page{Title: "Event details poster", Form: form})
}

func (s *Server) handleEventSubmit(w http.ResponseWriter, r *http.Request) {
	form := parseEventForm(r)
	data := page{Title: "Event details poster", Form: form}

	req, err := form.request(s.location())
	if err != nil {
		s.renderFailure(w, r, "event", data, err)
		return
	}
	s.renderPoster(w, r, "event", data, req)
}

func (s *Server) handleBlankForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "blank", page{Title: "Blank space poster", Form: blankForm{}})
}

func (s *Server) handleBlankSubmit(w http.ResponseWriter, r *http.Request) {
	form := blankForm{Text: r.PostFormValue("text")}
	data := page{Title: "Blank space poster", Form: form}
	s.renderPoster(w, r, "blank", data, poster.BlankRequest{Text: form.Text})
}

func (s *Server) handleTodayForm(w http.ResponseWriter, r *http.Request) {
	form := todayForm{Date: s.today().Format(poster.InputDateLayout)}
	s.render(w, r, http.StatusOK, "today", page{Title: "Today's date poster", Form: form})
}

// handleTodaySubmit always uses the server's date; the form field is
// display only.
func (s *Server) handleTodaySubmit(w http.ResponseWriter, r *http.Request) {
	now := s.today()
	data := page{Title: "Today's date poster", Form: todayForm{Date: now.Format(poster.InputDateLayout)}}
	s.renderPoster(w, r, "today", data, poster.TodayRequest{Date: now})
}

// renderPoster runs the pipeline, stores the artifacts for download and
// shows the form again with a preview.
func (s *Server) renderPoster(w http.ResponseWriter, r *http.Request, name string, data page, req poster.Request) {
	ctx := r.Context()
	res, err := s.runner.Execute(ctx, pipeline.Options{
		Request: req,
		Formats: []string{pipeline.FormatPNG, pipeline.FormatPDF},
		Logger:  s.logger,
	})
	if err != nil {
		s.renderFailure(w, r, name, data, err)
		return
	}

	id, err := s.storeHandoff(ctx, res)
	if err != nil {
		s.logger.Error("store artifacts", "error", err)
		s.renderFailure(w, r, name, data, errors.Wrap(errors.ErrCodeInternal, err, "could not store the poster for download"))
		return
	}
	data.Result = &resultView{
		ID:       id,
		Name:     res.Name,
		Warnings: res.Warnings,
		Cached:   res.CacheInfo.Hit,
	}
	s.render(w, r, http.StatusOK, name, data)
}

// renderFailure shows the form again with the error message.
func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, name string, data page, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "page", name, "error", err)
	} else {
		s.logger.Debug("rejected request", "page", name, "error", err)
	}
	data.Error = errors.UserMessage(err)
	s.render(w, r, status, name, data)
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case stderrors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusInternalServerError
}

func (s *Server) location() *time.Location {
	if loc := s.runner.Env.Settings.Location; loc != nil {
		return loc
	}
	return time.UTC
}

func (s *Server) today() time.Time {
	return s.now().In(s.location())
}
