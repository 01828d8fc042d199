package assets

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/matzehuels/posterkit/pkg/errors"
)

// DefaultQRSize is the edge length in pixels of generated QR codes. Posters
// scale the code down to their layout slot.
const DefaultQRSize = 1024

// QRCode encodes content as a square QR code image of size pixels with
// medium error correction.
func QRCode(content string, size int) (image.Image, error) {
	if content == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "QR code content cannot be empty")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetLoad, err, "encode QR code")
	}
	return q.Image(size), nil
}

func qrKey(content string, size int) string {
	return fmt.Sprintf("qr:%d:%s", size, content)
}
