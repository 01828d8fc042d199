package textfit

// PlacedLine is a line of text with its top-left draw position.
type PlacedLine struct {
	Text   string
	X, Y   int
	Width  int
	Height int
}

// Place centers lines inside box, each line horizontally on its own (ragged
// centering) and the block as a whole vertically. The block never starts
// above box.Top; lines wider than the box extend past both edges equally.
func Place(lines []string, m Measurer, size, gap int, box Box) ([]PlacedLine, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	placed := make([]PlacedLine, len(lines))
	total := 0
	for i, ln := range lines {
		w, h, err := m.Measure(ln, size)
		if err != nil {
			return nil, err
		}
		placed[i] = PlacedLine{Text: ln, Width: w, Height: h}
		total += h
	}
	total += gap * (len(lines) - 1)

	y := box.Top + max(0, (box.Height-total)/2)
	for i := range placed {
		placed[i].X = box.Left + FloorDiv(box.Width-placed[i].Width, 2)
		placed[i].Y = y
		y += placed[i].Height + gap
	}
	return placed, nil
}

// Layout fits text into box and places the result. It is Fit followed by
// Place with MaxWidth and MaxHeight taken from the box.
func Layout(text string, m Measurer, box Box, minSize, maxSize int, gapFraction float64) (FitResult, []PlacedLine, error) {
	res, err := Fit(text, m, FitOptions{
		MaxWidth:    box.Width,
		MaxHeight:   box.Height,
		MinSize:     minSize,
		MaxSize:     maxSize,
		GapFraction: gapFraction,
	})
	if err != nil {
		return FitResult{}, nil, err
	}
	placed, err := Place(res.Lines, m, res.Size, res.Gap, box)
	if err != nil {
		return FitResult{}, nil, err
	}
	return res, placed, nil
}

// FloorDiv returns a/b rounded toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
