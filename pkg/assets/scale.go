package assets

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Cover scales img to cover a w x h canvas and crops the overflow around the
// center, preserving the aspect ratio.
func Cover(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

// FitSize returns the dimensions of img scaled by the largest ratio that
// keeps it within maxW x maxH. With upscale false the ratio is capped at 1.
// Dimensions are truncated and never drop below 1.
func FitSize(img image.Image, maxW, maxH float64, upscale bool) (int, int) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	ratio := math.Min(maxW/w, maxH/h)
	if !upscale && ratio > 1 {
		ratio = 1
	}
	if ratio <= 0 {
		ratio = 1
	}
	return max(1, int(w*ratio)), max(1, int(h*ratio))
}

// Fit scales img into maxW x maxH as FitSize describes.
func Fit(img image.Image, maxW, maxH float64, upscale bool) *image.NRGBA {
	w, h := FitSize(img, maxW, maxH, upscale)
	if w == 0 || h == 0 {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
