package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/posterkit/pkg/cache"
	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/observability"
	"github.com/matzehuels/posterkit/pkg/pipeline"
	"github.com/matzehuels/posterkit/pkg/poster"
)

var fixedNow = time.Date(2025, 10, 15, 18, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	env := poster.NewEnv(nil)
	env.Settings.Location = time.UTC
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(env, nil, nil, nil)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var artifactRe = regexp.MustCompile(`/artifacts/([0-9a-f-]{36})\.png`)

func artifactID(t *testing.T, body string) string {
	t.Helper()
	m := artifactRe.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no artifact link in page:\n%s", body)
	}
	return m[1]
}

func TestNewRequiresRunner(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without runner")
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, link := range []string{`href="/event"`, `href="/blank"`, `href="/today"`, `href="/library"`} {
		if !strings.Contains(rec.Body.String(), link) {
			t.Errorf("index missing %s", link)
		}
	}
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	if rec := do(t, h, http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d", rec.Code)
	}
}

func TestEventFormDefaults(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodGet, "/event", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /event = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`value="Municipality"`,
		`value="2025-10-15"`,
		`value="18:30"`,
		`value="20:30"`,
		`name="question" value="on" checked`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("event form missing %s", want)
		}
	}
}

func eventValues(city, date string) url.Values {
	return url.Values{
		"city":     {city},
		"date":     {date},
		"start":    {"13:00"},
		"address1": {"Festival Place, 100 Festival Way"},
		"question": {"on"},
	}
}

func TestEventSubmitInvalid(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing city", eventValues("", "2025-10-15"), "city is required"},
		{"bad date", eventValues("Sherwood Park", "15/10/2025"), "invalid date"},
		{"bad end", func() url.Values {
			f := eventValues("Sherwood Park", "2025-10-15")
			f.Set("end", "25:99")
			return f
		}(), "invalid time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/event", tt.form)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body does not mention %q", tt.want)
			}
			if strings.Contains(rec.Body.String(), "/artifacts/") {
				t.Error("failed submit offered a download")
			}
		})
	}
}

func TestEventSubmitAndDownload(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	rec := do(t, h, http.MethodPost, "/event", eventValues("Sherwood Park", "2025-10-15"))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /event = %d\n%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	id := artifactID(t, body)
	if !strings.Contains(body, `value="Sherwood Park"`) {
		t.Error("form values not kept after submit")
	}

	png := do(t, h, http.MethodGet, "/artifacts/"+id+".png", nil)
	if png.Code != http.StatusOK {
		t.Fatalf("GET png = %d", png.Code)
	}
	if ct := png.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("png Content-Type = %q", ct)
	}
	if cd := png.Header().Get("Content-Disposition"); cd != `attachment; filename="Sherwood_Park_poster.png"` {
		t.Errorf("png Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(png.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("png body is not a PNG")
	}

	inline := do(t, h, http.MethodGet, "/artifacts/"+id+".png?inline=1", nil)
	if cd := inline.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline;") {
		t.Errorf("inline Content-Disposition = %q", cd)
	}

	pdf := do(t, h, http.MethodGet, "/artifacts/"+id+".pdf", nil)
	if pdf.Code != http.StatusOK || !bytes.HasPrefix(pdf.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("GET pdf = %d", pdf.Code)
	}
	if cd := pdf.Header().Get("Content-Disposition"); !strings.Contains(cd, "Sherwood_Park_poster.pdf") {
		t.Errorf("pdf Content-Disposition = %q", cd)
	}
}

func TestTodaySubmit(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()

	form := do(t, h, http.MethodGet, "/today", nil)
	if !strings.Contains(form.Body.String(), `value="2025-10-15"`) {
		t.Error("today form does not show the current date")
	}

	// A posted date is ignored.
	rec := do(t, h, http.MethodPost, "/today", url.Values{"date": {"1999-01-01"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /today = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "10152025_Date_Poster.pdf") {
		t.Error("result does not offer 10152025_Date_Poster.pdf")
	}
}

func TestBlankTooLong(t *testing.T) {
	h := newTestServer(t, Options{}).Handler()
	rec := do(t, h, http.MethodPost, "/blank", url.Values{"text": {strings.Repeat("a", errors.MaxTextLength+1)}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestArtifactNotFound(t *testing.T) {
	store := cache.NewMemoryCache(8)
	s := newTestServer(t, Options{Store: store, ArtifactTTL: 20 * time.Millisecond})
	h := s.Handler()

	id, err := s.storeHandoff(context.Background(), &pipeline.Result{
		Name:      "Test_poster",
		Artifacts: map[string][]byte{"png": []byte("png-bytes")},
	})
	if err != nil {
		t.Fatal(err)
	}

	if rec := do(t, h, http.MethodGet, "/artifacts/"+id+".png", nil); rec.Code != http.StatusOK || rec.Body.String() != "png-bytes" {
		t.Fatalf("fresh artifact = %d %q", rec.Code, rec.Body.String())
	}

	tests := []struct {
		name, path string
	}{
		{"not a uuid", "/artifacts/abc.png"},
		{"unknown format", "/artifacts/" + id + ".gif"},
		{"format not rendered", "/artifacts/" + id + ".pdf"},
		{"unknown id", "/artifacts/00000000-0000-0000-0000-000000000000.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodGet, tt.path, nil); rec.Code != http.StatusNotFound {
				t.Errorf("GET %s = %d, want 404", tt.path, rec.Code)
			}
		})
	}

	time.Sleep(40 * time.Millisecond)
	if rec := do(t, h, http.MethodGet, "/artifacts/"+id+".png", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expired artifact = %d, want 404", rec.Code)
	}
}

func TestLibrary(t *testing.T) {
	h := newTestServer(t, Options{Library: []LibraryLink{
		{Title: "Logos", URL: "https://drive.example.org/logos"},
	}}).Handler()
	rec := do(t, h, http.MethodGet, "/library", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /library = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `src="https://drive.example.org/logos"`) || !strings.Contains(body, "Logos") {
		t.Errorf("library page missing link:\n%s", body)
	}

	empty := do(t, newTestServer(t, Options{}).Handler(), http.MethodGet, "/library", nil)
	if !strings.Contains(empty.Body.String(), "No asset folders") {
		t.Error("empty library message missing")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid input", errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{"invalid date", errors.New(errors.ErrCodeInvalidDate, "x"), http.StatusBadRequest},
		{"not found", errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{"file not found", errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{"unsupported", errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"font", errors.New(errors.ErrCodeFontLoad, "x"), http.StatusInternalServerError},
		{"plain", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

type recordingServerHooks struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingServerHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	h := newTestServer(t, Options{}).Handler()
	do(t, h, http.MethodGet, "/healthz", nil)
	do(t, h, http.MethodGet, "/artifacts/abc.png", nil)

	want := []string{"GET /healthz", "GET /artifacts/{id}.{format}"}
	if len(hooks.routes) != len(want) {
		t.Fatalf("routes = %v, want %v", hooks.routes, want)
	}
	for i := range want {
		if hooks.routes[i] != want[i] {
			t.Errorf("routes[%d] = %q, want %q", i, hooks.routes[i], want[i])
		}
	}
}
