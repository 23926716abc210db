// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pkpass-converter/pkg/types"
)

func TestNewQREncoder(t *testing.T) {
	tests := []struct {
		backend types.QRBackend
		want    QREncoder
		wantErr bool
	}{
		{types.BackendSkip2, Skip2Encoder{}, false},
		{"", Skip2Encoder{}, false},
		{types.BackendBoombuler, BoombulerEncoder{}, false},
		{"zxing", nil, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			got, err := NewQREncoder(tt.backend)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodersWriteGrayPNG(t *testing.T) {
	for _, enc := range []QREncoder{Skip2Encoder{}, BoombulerEncoder{}} {
		t.Run(typeName(enc), func(t *testing.T) {
			img, err := enc.Encode("TKT-2024-0001", 256)
			require.NoError(t, err)
			assert.Equal(t, 256, img.Bounds().Dx())
			assert.Equal(t, 256, img.Bounds().Dy())

			path := filepath.Join(t.TempDir(), QRFileName)
			require.NoError(t, WriteQRPNG(img, path))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			decoded, err := png.Decode(f)
			require.NoError(t, err)
			_, isGray := decoded.(*image.Gray)
			assert.True(t, isGray, "qr png should decode as 8-bit greyscale, got %T", decoded)
		})
	}
}

func TestEncodersRoundTrip(t *testing.T) {
	message := "EVT:8841|SEAT:14C|https://tickets.example/t/0001"
	for _, enc := range []QREncoder{Skip2Encoder{}, BoombulerEncoder{}} {
		t.Run(typeName(enc), func(t *testing.T) {
			img, err := enc.Encode(message, 300)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), QRFileName)
			require.NoError(t, WriteQRPNG(img, path))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			decoded, err := png.Decode(f)
			require.NoError(t, err)

			got, err := decodeQR(decoded)
			require.NoError(t, err)
			assert.Equal(t, message, got)
		})
	}
}

// decodeQR reads the QR symbol in img after placing it on a white margin, as
// it appears on the printed page.
func decodeQR(img image.Image) (string, error) {
	const pad = 40
	b := img.Bounds()
	page := image.NewGray(image.Rect(0, 0, b.Dx()+2*pad, b.Dy()+2*pad))
	draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(page, image.Rect(pad, pad, pad+b.Dx(), pad+b.Dy()), img, b.Min, draw.Src)

	bmp, err := gozxing.NewBinaryBitmapFromImage(page)
	if err != nil {
		return "", err
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}

func TestWriteQRPNGUnwritable(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	err := WriteQRPNG(img, filepath.Join(t.TempDir(), "missing", QRFileName))
	assert.Error(t, err)
}

func typeName(enc QREncoder) string {
	switch enc.(type) {
	case Skip2Encoder:
		return "skip2"
	case BoombulerEncoder:
		return "boombuler"
	default:
		return "unknown"
	}
}
