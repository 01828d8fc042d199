package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/posterkit/pkg/errors"
	"github.com/matzehuels/posterkit/pkg/observability"
)

// fakeRunner imitates soffice and pdftoppm by writing the files they would
// produce.
type fakeRunner struct {
	missing map[string]bool
	// fail makes any command touching a file with this base name fail.
	fail string
	// delay slows soffice down so overlapping calls would be observed.
	delay time.Duration

	mu    sync.Mutex
	calls []string

	sofficeActive int32
	sofficeMax    int32
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if f.missing[file] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	f.mu.Unlock()

	for _, a := range args {
		if f.fail != "" && strings.Contains(filepath.Base(a), f.fail) {
			return fmt.Errorf("%s: exit status 1: boom", name)
		}
	}

	switch name {
	case "soffice":
		n := atomic.AddInt32(&f.sofficeActive, 1)
		defer atomic.AddInt32(&f.sofficeActive, -1)
		for {
			m := atomic.LoadInt32(&f.sofficeMax)
			if n <= m || atomic.CompareAndSwapInt32(&f.sofficeMax, m, n) {
				break
			}
		}
		time.Sleep(f.delay)
		// --headless --convert-to pdf --outdir DIR FILE
		outDir, src := args[4], args[5]
		stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		return os.WriteFile(filepath.Join(outDir, stem+".pdf"), []byte("%PDF-1.4"), 0o644)
	case "pdftoppm":
		// -png -r DPI -f 1 -l 1 -singlefile IN PREFIX
		in, prefix := args[len(args)-2], args[len(args)-1]
		return os.WriteFile(prefix+".png", []byte("\x89PNG "+in), 0o644)
	}
	return fmt.Errorf("unexpected command %s", name)
}

func (f *fakeRunner) callsFor(name string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, name+" ") {
			out = append(out, c)
		}
	}
	return out
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.pptx", "a.PPTX", "c.pdf", "notes.txt", "d.Pdf")
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	pptx, pdf, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	wantPPTX := []string{filepath.Join(dir, "a.PPTX"), filepath.Join(dir, "b.pptx")}
	wantPDF := []string{filepath.Join(dir, "c.pdf"), filepath.Join(dir, "d.Pdf")}
	if strings.Join(pptx, ",") != strings.Join(wantPPTX, ",") {
		t.Errorf("pptx = %v, want %v", pptx, wantPPTX)
	}
	if strings.Join(pdf, ",") != strings.Join(wantPDF, ",") {
		t.Errorf("pdf = %v, want %v", pdf, wantPDF)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/a/Deck.pptx", "/a/Deck.png"},
		{"/a/poster.final.PDF", "/a/poster.final.png"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvertDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "deck.pptx", "flyer.pdf", "readme.md")
	fake := &fakeRunner{}
	c := New(Options{DPI: 150, Runner: fake})

	report, err := c.ConvertDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ConvertDir: %v", err)
	}
	if got := report.Count(StatusConverted); got != 2 {
		t.Fatalf("converted = %d, want 2: %+v", got, report.Results)
	}
	if report.Results[0].Source != filepath.Join(dir, "deck.pptx") {
		t.Errorf("results not in input order: %+v", report.Results)
	}
	for _, name := range []string{"deck.png", "flyer.png"} {
		if !exists(filepath.Join(dir, name)) {
			t.Errorf("%s not written", name)
		}
	}

	ppm := fake.callsFor("pdftoppm")
	if len(ppm) != 2 {
		t.Fatalf("pdftoppm calls = %v", ppm)
	}
	want := "pdftoppm -png -r 150 -f 1 -l 1 -singlefile " + filepath.Join(dir, "flyer.pdf") + " " + filepath.Join(dir, "flyer")
	found := false
	for _, c := range ppm {
		if c == want {
			found = true
		}
	}
	if !found {
		t.Errorf("pdftoppm calls = %v, want one %q", ppm, want)
	}

	office := fake.callsFor("soffice")
	if len(office) != 1 || !strings.HasPrefix(office[0], "soffice --headless --convert-to pdf --outdir ") {
		t.Errorf("soffice calls = %v", office)
	}
}

func TestConvertDirStemCollision(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "deck.pptx", "deck.pdf", "talk.pptx")
	fake := &fakeRunner{}

	report, err := New(Options{Runner: fake, Jobs: 4}).ConvertDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	deck := report.Results[0]
	if deck.Source != filepath.Join(dir, "deck.pptx") || deck.Status != StatusSkipped ||
		!strings.Contains(deck.Reason, "collides with deck.pdf") {
		t.Errorf("deck.pptx result = %+v, want skipped for collision", deck)
	}
	if report.Count(StatusConverted) != 2 {
		t.Errorf("results = %+v, want talk.pptx and deck.pdf converted", report.Results)
	}

	got, err := os.ReadFile(filepath.Join(dir, "deck.png"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "\x89PNG " + filepath.Join(dir, "deck.pdf"); string(got) != want {
		t.Errorf("deck.png = %q, want the PDF's render", got)
	}
	for _, call := range fake.callsFor("soffice") {
		if strings.Contains(call, "deck.pptx") {
			t.Errorf("soffice ran on colliding deck.pptx: %s", call)
		}
	}
}

func TestConvertDirSkipsPPTXWithoutSoffice(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "deck.pptx", "flyer.pdf")
	fake := &fakeRunner{missing: map[string]bool{"soffice": true}}

	report, err := New(Options{Runner: fake}).ConvertDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if report.Count(StatusSkipped) != 1 || report.Count(StatusConverted) != 1 {
		t.Fatalf("results = %+v", report.Results)
	}
	if r := report.Results[0]; r.Status != StatusSkipped || !strings.Contains(r.Reason, "soffice") {
		t.Errorf("pptx result = %+v", r)
	}
	if exists(filepath.Join(dir, "deck.png")) {
		t.Error("skipped pptx produced output")
	}
	if len(fake.callsFor("soffice")) != 0 {
		t.Error("soffice was run although missing")
	}
}

func TestConvertDirRequiresPdftoppm(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "flyer.pdf")
	fake := &fakeRunner{missing: map[string]bool{"pdftoppm": true}}

	_, err := New(Options{Runner: fake}).ConvertDir(context.Background(), dir)
	if !errors.Is(err, errors.ErrCodeEngineMissing) {
		t.Fatalf("got %v, want ENGINE_MISSING", err)
	}
	if !strings.Contains(errors.Hint(err), "poppler") {
		t.Errorf("Hint = %q, want poppler install hint", errors.Hint(err))
	}
}

func TestConvertDirEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt")
	// pdftoppm is not needed when there is nothing to convert.
	fake := &fakeRunner{missing: map[string]bool{"pdftoppm": true, "soffice": true}}
	report, err := New(Options{Runner: fake}).ConvertDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != 0 {
		t.Errorf("results = %+v", report.Results)
	}
}

func TestConvertDirBadFolder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file.pdf")
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope"), errors.ErrCodeFileNotFound},
		{"file", filepath.Join(dir, "file.pdf"), errors.ErrCodeInvalidPath},
		{"empty", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{Runner: &fakeRunner{}}).ConvertDir(context.Background(), tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConvertDirRecordsFailures(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bad.pdf", "good.pdf")
	fake := &fakeRunner{fail: "bad"}

	report, err := New(Options{Runner: fake}).ConvertDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("per-file failure must not abort the batch: %v", err)
	}
	if report.Count(StatusFailed) != 1 || report.Count(StatusConverted) != 1 {
		t.Fatalf("results = %+v", report.Results)
	}
	failed := report.Results[0]
	if !errors.Is(failed.Err, errors.ErrCodeEngineFailed) {
		t.Errorf("failure code = %s", errors.GetCode(failed.Err))
	}
	if failed.Output != "" {
		t.Errorf("failed result has output %q", failed.Output)
	}
}

func TestConvertDirSerialisesSoffice(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pptx", "b.pptx", "c.pptx", "d.pptx")
	fake := &fakeRunner{delay: 10 * time.Millisecond}

	report, err := New(Options{Jobs: 4, Runner: fake}).ConvertDir(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if report.Count(StatusConverted) != 4 {
		t.Fatalf("results = %+v", report.Results)
	}
	if peak := atomic.LoadInt32(&fake.sofficeMax); peak != 1 {
		t.Errorf("max concurrent soffice = %d, want 1", peak)
	}
}

func TestConvertDirCanceled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "b.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{Runner: &fakeRunner{}}).ConvertDir(ctx, dir)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

type recordingConvertHooks struct {
	observability.NoopConvertHooks
	mu      sync.Mutex
	started int
	skipped []string
}

func (h *recordingConvertHooks) OnConvertStart(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *recordingConvertHooks) OnConvertSkip(_ context.Context, file, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.skipped = append(h.skipped, filepath.Base(file))
}

func TestConvertHooks(t *testing.T) {
	hooks := &recordingConvertHooks{}
	observability.SetConvertHooks(hooks)
	t.Cleanup(observability.Reset)

	dir := t.TempDir()
	touch(t, dir, "deck.pptx", "a.pdf", "b.pdf")
	fake := &fakeRunner{missing: map[string]bool{"soffice": true}}
	if _, err := New(Options{Runner: fake}).ConvertDir(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if hooks.started != 2 {
		t.Errorf("started = %d, want 2", hooks.started)
	}
	if len(hooks.skipped) != 1 || hooks.skipped[0] != "deck.pptx" {
		t.Errorf("skipped = %v", hooks.skipped)
	}
}

func TestConvertDirProgress(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pptx", "b.pdf", "c.pdf", "d.pdf")
	fake := &fakeRunner{missing: map[string]bool{"soffice": true}}

	var seen []int
	total := 0
	c := New(Options{Runner: fake, Jobs: 3, Progress: func(done, n int) {
		seen = append(seen, done)
		total = n
	}})
	if _, err := c.ConvertDir(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if len(seen) != 4 {
		t.Fatalf("progress calls = %v, want 4", seen)
	}
	for i, d := range seen {
		if d != i+1 {
			t.Errorf("progress calls = %v, want 1..4 in order", seen)
			break
		}
	}
}
