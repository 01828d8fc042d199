// Package textfit lays out free text inside a rectangular region.
//
// The package has three parts that are usually used together:
//
//   - [Wrap] splits text into lines that fit a pixel width, greedily.
//   - [Fit] binary-searches the largest font size whose wrapped block fits a
//     width x height budget, and [FitWidth] does the same for a single line
//     that only has to fit a width.
//   - [Place] centers the fitted lines inside a [Box] and returns their draw
//     positions.
//
// Nothing in this package touches fonts or images directly. All glyph
// measurement goes through the [Measurer] interface, so the same layout runs
// against a real font backend (see package fonts) or a fake in tests.
//
// # Overflow policy
//
// Layout never fails because text is too large. A word wider than the box is
// placed on its own line and overflows the box instead of being split or
// dropped, and when no size in range fits, [Fit] and [FitWidth] fall back to
// the minimum size and report Fits == false. Errors are returned only when
// the Measurer itself fails; they are passed through unchanged.
//
// # Example
//
//	res, err := textfit.Fit(text, m, textfit.FitOptions{
//	    MaxWidth:    2000,
//	    MaxHeight:   600,
//	    MinSize:     16,
//	    MaxSize:     300,
//	    GapFraction: 0.15,
//	})
//	if err != nil {
//	    return err
//	}
//	lines, err := textfit.Place(res.Lines, m, res.Size, res.Gap, box)
package textfit
