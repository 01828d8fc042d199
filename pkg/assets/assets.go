// Package assets loads and prepares the raster images composited onto
// posters: logos, backgrounds and QR codes.
//
// Decoded images are cached by a [Store] and treated as read-only, so one
// store can serve concurrent renders.
package assets

import (
	"image"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/posterkit/pkg/errors"
)

// Paths names the optional image files for a poster. Empty fields are
// simply absent.
type Paths struct {
	Logo       string
	Background string
	QRCode     string
}

// Set holds decoded assets. Any field may be nil.
type Set struct {
	Logo       image.Image
	Background image.Image
	QRCode     image.Image
}

// Store decodes image files once and caches them by path.
type Store struct {
	mu     sync.RWMutex
	images map[string]image.Image
	logger *log.Logger
}

// NewStore creates an empty store. A nil logger discards output.
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{images: make(map[string]image.Image), logger: logger}
}

// Image returns the decoded image at path, decoding it on first use.
// EXIF orientation is applied.
func (s *Store) Image(path string) (image.Image, error) {
	s.mu.RLock()
	img, ok := s.images[path]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.images[path] = img
	s.mu.Unlock()
	b := img.Bounds()
	s.logger.Debug("loaded image", "path", path, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

// QRCode returns a cached QR code for content at the given pixel size.
func (s *Store) QRCode(content string, size int) (image.Image, error) {
	key := qrKey(content, size)
	s.mu.RLock()
	img, ok := s.images[key]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := QRCode(content, size)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.images[key] = img
	s.mu.Unlock()
	return img, nil
}

// Load resolves a full asset set. Configured paths must load. When no QR
// image file is configured and qrContent is non-empty, a QR code is
// generated for it.
func (s *Store) Load(p Paths, qrContent string) (Set, error) {
	var set Set
	var err error
	if p.Logo != "" {
		if set.Logo, err = s.Image(p.Logo); err != nil {
			return Set{}, err
		}
	}
	if p.Background != "" {
		if set.Background, err = s.Image(p.Background); err != nil {
			return Set{}, err
		}
	}
	switch {
	case p.QRCode != "":
		if set.QRCode, err = s.Image(p.QRCode); err != nil {
			return Set{}, err
		}
	case qrContent != "":
		if set.QRCode, err = s.QRCode(qrContent, DefaultQRSize); err != nil {
			return Set{}, err
		}
	}
	return set, nil
}

// Open decodes an image file.
func Open(path string) (image.Image, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "decode image %s", path)
	}
	return img, nil
}

// Decode decodes an image from r.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "decode image")
	}
	return img, nil
}
