package textfit

import (
	"errors"
	"unicode/utf8"
)

// monoMeasurer is a deterministic fake: every rune advances size/2 pixels and
// any non-empty string is size pixels tall.
type monoMeasurer struct {
	calls int
}

func (m *monoMeasurer) Measure(text string, size int) (int, int, error) {
	m.calls++
	if text == "" {
		return 0, 0, nil
	}
	return utf8.RuneCountInString(text) * (size / 2), size, nil
}

var errBoom = errors.New("boom")

// failingMeasurer fails on every call.
var failingMeasurer = MeasurerFunc(func(string, int) (int, int, error) {
	return 0, 0, errBoom
})
