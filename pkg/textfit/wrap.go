package textfit

import "strings"

// Wrap splits text into lines no wider than maxWidth when rendered at size.
//
// Tokens are separated by any run of whitespace and rejoined with single
// spaces. Whitespace-only input yields exactly one empty line, never an empty
// slice. A token that is wider than maxWidth on its own is kept whole on its
// own line and overflows.
func Wrap(text string, m Measurer, size, maxWidth int) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}, nil
	}

	var lines []string
	line := ""
	for _, w := range words {
		trial := w
		if line != "" {
			trial = line + " " + w
		}
		if line == "" {
			line = trial
			continue
		}
		width, _, err := m.Measure(trial, size)
		if err != nil {
			return nil, err
		}
		if width <= maxWidth {
			line = trial
			continue
		}
		lines = append(lines, line)
		line = w
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines, nil
}
