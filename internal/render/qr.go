// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/pdiddy/pkpass-converter/pkg/types"
)

// Transient images written into the scratch directory.
const (
	QRFileName   = "qr_temp.png"
	LogoFileName = "logo_8bit.png"
)

// QREncoder turns a barcode message into a square QR bitmap. Different
// backends (skip2/go-qrcode, boombuler/barcode) implement this interface.
type QREncoder interface {
	// Encode returns a QR symbol for message, size pixels wide.
	Encode(message string, size int) (image.Image, error)
}

// NewQREncoder returns the encoder for the named backend.
func NewQREncoder(backend types.QRBackend) (QREncoder, error) {
	switch backend {
	case types.BackendSkip2, "":
		return Skip2Encoder{}, nil
	case types.BackendBoombuler:
		return BoombulerEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown qr backend %q", backend)
	}
}

// Skip2Encoder encodes with github.com/skip2/go-qrcode at medium recovery.
type Skip2Encoder struct{}

func (Skip2Encoder) Encode(message string, size int) (image.Image, error) {
	q, err := qrcode.New(message, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return q.Image(size), nil
}

// BoombulerEncoder encodes with github.com/boombuler/barcode at level M.
type BoombulerEncoder struct{}

func (BoombulerEncoder) Encode(message string, size int) (image.Image, error) {
	code, err := qr.Encode(message, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("scaling qr code: %w", err)
	}
	return scaled, nil
}

// WriteQRPNG writes img to path as an 8-bit greyscale PNG. Encoders may
// return paletted or 16-bit images; gofpdf only embeds PNGs up to 8 bits per
// channel, so every image is redrawn onto an image.Gray first.
func WriteQRPNG(img image.Image, path string) error {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return writePNG(gray, path)
}

// normaliseLogo decodes the logo at src and writes it to dst as a
// non-interlaced 8-bit RGBA PNG, keeping colour and alpha, so gofpdf can
// embed logos stored with 16-bit channels or Adam7 interlacing.
func normaliseLogo(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", src, err)
	}

	b := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return writePNG(rgba, dst)
}

func writePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
