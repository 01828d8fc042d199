package fonts

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/matzehuels/posterkit/pkg/errors"
)

func TestLoaderBuiltin(t *testing.T) {
	l := NewLoader(nil)

	for _, src := range Builtins() {
		t.Run(src, func(t *testing.T) {
			f, err := l.Font(src)
			if err != nil {
				t.Fatalf("Font(%q) error: %v", src, err)
			}
			again, err := l.Font(src)
			if err != nil {
				t.Fatalf("second Font(%q) error: %v", src, err)
			}
			if f != again {
				t.Error("parsed font should be cached")
			}
			if !IsBuiltin(src) {
				t.Errorf("IsBuiltin(%q) = false", src)
			}
		})
	}
	if got := l.Loaded(); got != 2 {
		t.Errorf("Loaded() = %d, want 2", got)
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.ttf")
	if err := os.WriteFile(garbage, []byte("not a font"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		source string
		code   errors.Code
	}{
		{"unknown builtin", "builtin:comic", errors.ErrCodeFontLoad},
		{"missing file", filepath.Join(dir, "nope.ttf"), errors.ErrCodeFileNotFound},
		{"not a font", garbage, errors.ErrCodeFontLoad},
		{"traversal", "../../fonts/x.ttf", errors.ErrCodeInvalidPath},
	}

	l := NewLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Font(tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
	if got := l.Loaded(); got != 0 {
		t.Errorf("failed loads should not be cached, Loaded() = %d", got)
	}
}

func TestResolveFallback(t *testing.T) {
	l := NewLoader(nil)
	missing := filepath.Join(t.TempDir(), "Aptos-ExtraBold.ttf")

	tests := []struct {
		name    string
		chain   []string
		want    string
		wantErr bool
	}{
		{"first wins", []string{BuiltinRegular, BuiltinBold}, BuiltinRegular, false},
		{"skips missing", []string{missing, BuiltinBold}, BuiltinBold, false},
		{"skips empty", []string{"", "  ", BuiltinBold}, BuiltinBold, false},
		{"default chain", DefaultFallback, "", false},
		{"all missing", []string{missing}, "", true},
		{"nothing", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Resolve(tt.chain...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if !tt.wantErr && got == "" {
				t.Error("Resolve() returned empty source without error")
			}
		})
	}
}

func TestLoaderConcurrent(t *testing.T) {
	l := NewLoader(nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := Builtins()[i%2]
			s := l.Session()
			defer s.Close()
			if _, _, err := s.Measurer(src).Measure("Forever Canadian", 40+i); err != nil {
				t.Errorf("Measure error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if got := l.Loaded(); got != 2 {
		t.Errorf("Loaded() = %d, want 2", got)
	}
}

func TestSessionFaces(t *testing.T) {
	s := NewLoader(nil).Session()
	defer s.Close()

	a, err := s.Face(BuiltinBold, 90)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Face(BuiltinBold, 90)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("face should be cached per (source, size)")
	}
	if _, err := s.Face(BuiltinBold, 130); err != nil {
		t.Fatal(err)
	}
	if got := s.Faces(); got != 2 {
		t.Errorf("Faces() = %d, want 2", got)
	}

	for _, size := range []int{0, -5} {
		if _, err := s.Face(BuiltinBold, size); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Face(size=%d) error = %v, want INVALID_INPUT", size, err)
		}
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if got := s.Faces(); got != 0 {
		t.Errorf("Faces() after Close = %d, want 0", got)
	}
}

func TestMeasurer(t *testing.T) {
	s := NewLoader(nil).Session()
	defer s.Close()
	m := s.Measurer(BuiltinBold)

	t.Run("empty is zero", func(t *testing.T) {
		w, h, err := m.Measure("", 300)
		if err != nil {
			t.Fatal(err)
		}
		if w != 0 || h != 0 {
			t.Errorf("Measure(\"\") = %dx%d, want 0x0", w, h)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		w1, h1, _ := m.Measure("HELLO", 120)
		w2, h2, _ := m.Measure("HELLO", 120)
		if w1 != w2 || h1 != h2 {
			t.Errorf("measurements differ: %dx%d vs %dx%d", w1, h1, w2, h2)
		}
	})

	t.Run("grows with size", func(t *testing.T) {
		prevW, prevH := 0, 0
		for _, size := range []int{16, 60, 130, 300} {
			w, h, err := m.Measure("HELLO", size)
			if err != nil {
				t.Fatal(err)
			}
			if w <= prevW || h <= prevH {
				t.Errorf("size %d: %dx%d not larger than %dx%d", size, w, h, prevW, prevH)
			}
			if h > size*2 {
				t.Errorf("size %d: height %d implausibly large", size, h)
			}
			prevW, prevH = w, h
		}
	})

	t.Run("longer text is wider", func(t *testing.T) {
		short, _, _ := m.Measure("HI", 100)
		long, _, _ := m.Measure("HI THERE", 100)
		if long <= short {
			t.Errorf("width(%q)=%d <= width(%q)=%d", "HI THERE", long, "HI", short)
		}
	})

	t.Run("descenders add height", func(t *testing.T) {
		_, caps, _ := m.Measure("ACE", 100)
		_, desc, _ := m.Measure("ACEgy", 100)
		if desc <= caps {
			t.Errorf("height with descenders %d <= caps height %d", desc, caps)
		}
	})

	t.Run("bounds above baseline", func(t *testing.T) {
		_, minY, _, maxY, err := m.Bounds("HELLO", 100)
		if err != nil {
			t.Fatal(err)
		}
		if minY >= 0 {
			t.Errorf("minY = %d, want negative (above baseline)", minY)
		}
		if maxY < 0 {
			t.Errorf("maxY = %d, want >= 0 for capitals", maxY)
		}
		asc, err := m.Ascent(100)
		if err != nil {
			t.Fatal(err)
		}
		if asc < -minY {
			t.Errorf("ascent %d smaller than cap height %d", asc, -minY)
		}
	})

	t.Run("bad source", func(t *testing.T) {
		bad := s.Measurer("builtin:missing")
		if _, _, err := bad.Measure("x", 10); err == nil {
			t.Error("expected error for unknown font")
		}
		if bad.Source() != "builtin:missing" {
			t.Errorf("Source() = %q", bad.Source())
		}
	})
}
