// Package sink encodes rendered posters for download: lossless PNG and a
// single-page PDF with the poster image stretched over the page.
package sink

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/posterkit/pkg/errors"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Formats lists the supported formats in their preferred order.
var Formats = []string{FormatPNG, FormatPDF}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	return f == FormatPNG || f == FormatPDF
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Page is a PDF page size in points.
type Page struct {
	Width  float64
	Height float64
}

// Letter is a portrait US Letter page.
var Letter = Page{Width: 612, Height: 792}

// PageForImage returns the page that prints a w x h pixel image at dpi.
func PageForImage(w, h int, dpi float64) Page {
	return Page{Width: float64(w) * 72 / dpi, Height: float64(h) * 72 / dpi}
}

// Landscape reports whether the page is wider than tall.
func (p Page) Landscape() bool { return p.Width > p.Height }

// EncodePNG writes img as a PNG with maximum compression.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

// PDFOptions controls PDF output.
type PDFOptions struct {
	Page    Page
	Title   string
	Created time.Time // fixed creation date; zero means now
}

// EncodePDF writes a one-page PDF with img covering the full page.
func EncodePDF(w io.Writer, img image.Image, opts PDFOptions) error {
	page := opts.Page
	if page.Width <= 0 || page.Height <= 0 {
		page = Letter
	}
	// Size carries the final orientation; "L" would swap it.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("posterkit", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if !opts.Created.IsZero() {
		pdf.SetCreationDate(opts.Created)
		pdf.SetModificationDate(opts.Created)
	}
	pdf.AddPage()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode page image")
	}
	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("poster", imgOpts, &buf)
	pdf.ImageOptions("poster", 0, 0, page.Width, page.Height, false, imgOpts, 0, "")

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return nil
}

// Encode writes img in the given format.
func Encode(w io.Writer, format string, img image.Image, opts PDFOptions) error {
	switch format {
	case FormatPNG:
		return EncodePNG(w, img)
	case FormatPDF:
		return EncodePDF(w, img, opts)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}
