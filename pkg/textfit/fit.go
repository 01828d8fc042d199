package textfit

import "math"

// FitOptions bounds a Fit search.
type FitOptions struct {
	MaxWidth    int     // width budget in pixels
	MaxHeight   int     // height budget in pixels
	MinSize     int     // smallest font size tried; also the fallback size
	MaxSize     int     // largest font size tried
	GapFraction float64 // inter-line gap as a fraction of line height
}

// FitResult is the outcome of Fit or FitWidth.
type FitResult struct {
	Size       int      // chosen font size
	Lines      []string // wrapped lines at Size; at least one
	LineHeight int      // height of the first line at Size
	Gap        int      // floor(LineHeight * GapFraction)
	Fits       bool     // false when no size fitted and MinSize was used
}

// BlockHeight returns the height of n lines of lineHeight separated by gap.
func BlockHeight(lineHeight, n, gap int) int {
	if n <= 0 {
		return 0
	}
	return lineHeight*n + gap*(n-1)
}

// Height returns the block height of r.
func (r FitResult) Height() int {
	return BlockHeight(r.LineHeight, len(r.Lines), r.Gap)
}

// Fit returns the largest font size in [MinSize, MaxSize] at which text,
// wrapped to MaxWidth, forms a block no taller than MaxHeight.
//
// When even MinSize overflows, or when either budget is not positive, Fit
// returns the layout at MinSize with Fits set to false instead of an error.
func Fit(text string, m Measurer, opts FitOptions) (FitResult, error) {
	lo, hi := sizeRange(opts.MinSize, opts.MaxSize)
	minSize := lo

	if opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		var best FitResult
		found := false
		for lo <= hi {
			mid := lo + (hi-lo)/2
			res, err := wrapAt(text, m, mid, opts)
			if err != nil {
				return FitResult{}, err
			}
			if res.Height() <= opts.MaxHeight {
				res.Fits = true
				best, found = res, true
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		if found {
			return best, nil
		}
	}

	return wrapAt(text, m, minSize, opts)
}

// FitWidth returns the largest size in [minSize, maxSize] at which text,
// kept on a single line, is no wider than maxWidth. It falls back to minSize
// with Fits set to false when nothing fits.
func FitWidth(text string, m Measurer, maxWidth, minSize, maxSize int) (FitResult, error) {
	lo, hi := sizeRange(minSize, maxSize)
	minSize = lo

	best, found := 0, false
	if maxWidth > 0 {
		for lo <= hi {
			mid := lo + (hi-lo)/2
			w, _, err := m.Measure(text, mid)
			if err != nil {
				return FitResult{}, err
			}
			if w <= maxWidth {
				best, found = mid, true
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
	}

	size := minSize
	if found {
		size = best
	}
	_, h, err := m.Measure(text, size)
	if err != nil {
		return FitResult{}, err
	}
	return FitResult{
		Size:       size,
		Lines:      []string{text},
		LineHeight: h,
		Fits:       found,
	}, nil
}

// wrapAt wraps text at size and measures the resulting block.
func wrapAt(text string, m Measurer, size int, opts FitOptions) (FitResult, error) {
	lines, err := Wrap(text, m, size, opts.MaxWidth)
	if err != nil {
		return FitResult{}, err
	}
	_, h, err := m.Measure(lines[0], size)
	if err != nil {
		return FitResult{}, err
	}
	return FitResult{
		Size:       size,
		Lines:      lines,
		LineHeight: h,
		Gap:        GapFor(h, opts.GapFraction),
	}, nil
}

// GapFor returns floor(lineHeight * fraction), never negative.
func GapFor(lineHeight int, fraction float64) int {
	if fraction <= 0 || lineHeight <= 0 {
		return 0
	}
	return int(math.Floor(float64(lineHeight) * fraction))
}

// sizeRange normalizes a size range so that 1 <= lo <= hi.
func sizeRange(lo, hi int) (int, int) {
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
