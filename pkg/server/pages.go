package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/matzehuels/posterkit/pkg/poster"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "event", "blank", "today", "library", "error"}

// parsePages builds one template set per page so each can define its own
// "content" block.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS,
			"templates/layout.html",
			"templates/result.html",
			"templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// page is the data every page template receives.
type page struct {
	Title     string
	Error     string
	Templates []templateCard
	Library   []LibraryLink
	Form      any
	Result    *resultView
}

type templateCard struct {
	Name        string
	Title       string
	Description string
}

// resultView is a finished render awaiting download.
type resultView struct {
	ID       string
	Name     string
	Warnings []string
	Cached   bool
}

func (r *resultView) URL(format string) string {
	return "/artifacts/" + r.ID + "." + format
}

func (r *resultView) Filename(format string) string {
	return r.Name + "." + format
}

func templateCards() []templateCard {
	var cards []templateCard
	for _, t := range poster.Templates() {
		cards = append(cards, templateCard{Name: t.Name(), Title: t.Title(), Description: t.Description()})
	}
	return cards
}

// render executes a page into a buffer first so template errors become a
// clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	t, ok := s.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render page", "page", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.render(w, r, status, "error", page{Title: http.StatusText(status), Error: msg})
}
