package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/posterkit/pkg/poster"
	"github.com/matzehuels/posterkit/pkg/textfit"
)

func TestPlacedTable(t *testing.T) {
	out := placedTable([]textfit.PlacedLine{
		{Text: "Lethbridge", X: 120, Y: 40, Width: 760, Height: 180},
		{Text: "Public Library", X: 20, Y: 260, Width: 960, Height: 180},
	})

	for _, want := range []string{"Lethbridge", "Public Library", "120", "260", "960"} {
		if !strings.Contains(out, want) {
			t.Errorf("placedTable() is missing %q:\n%s", want, out)
		}
	}
}

func TestFitOptsBox(t *testing.T) {
	o := fitOpts{left: 10, top: 20, width: 300, height: 100}
	want := textfit.Box{Left: 10, Top: 20, Width: 300, Height: 100}
	if got := o.box(); got != want {
		t.Errorf("box() = %+v, want %+v", got, want)
	}
	if err := (fitOpts{width: 0, height: 100}).box().Validate(); err == nil {
		t.Error("zero width box should be invalid")
	}
}

func TestTemplatesTable(t *testing.T) {
	out := templatesTable(poster.Templates())

	for _, want := range []string{"event", "blank", "today", "2550×3300", "3300×2550", "8.5×11in", "11×8.5in"} {
		if !strings.Contains(out, want) {
			t.Errorf("templatesTable() is missing %q:\n%s", want, out)
		}
	}
}

func TestDisplayURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080"},
		{"0.0.0.0:9000", "http://0.0.0.0:9000"},
		{"posters.local:80", "http://posters.local:80"},
	}
	for _, tt := range tests {
		if got := displayURL(tt.addr); got != tt.want {
			t.Errorf("displayURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
