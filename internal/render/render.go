// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render composes a single-page A4 PDF ticket from a pass
// descriptor, its optional logo and a generated QR code.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/pkpass-converter/internal/logging"
	"github.com/pdiddy/pkpass-converter/internal/pkpass"
	"github.com/pdiddy/pkpass-converter/pkg/types"
)

const fontFamily = "DejaVu"

// Renderer draws tickets with gofpdf. Font faces are read once at
// construction and embedded into every document.
type Renderer struct {
	fonts  map[Face][]byte
	qr     QREncoder
	qrSize int
	logger *slog.Logger
}

// New creates a renderer using the fonts and QR size from cfg and the given
// encoder. It reads every font face up front and returns an error wrapping
// types.ErrFontUnavailable when any face cannot be loaded, so a batch can
// fail before converting anything.
func New(cfg types.RenderConfig, enc QREncoder, logger *slog.Logger) (*Renderer, error) {
	if enc == nil {
		return nil, errors.New("render: nil qr encoder")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	faces := map[Face]string{
		FaceRegular: cfg.Fonts.Regular,
		FaceBold:    cfg.Fonts.Bold,
		FaceItalic:  cfg.Fonts.Italic,
	}
	fonts := make(map[Face][]byte, len(faces))
	for face, path := range faces {
		data, err := loadFont(path)
		if err != nil {
			return nil, err
		}
		fonts[face] = data
	}

	size := cfg.QRSize
	if size <= 0 {
		size = types.DefaultQRSize
	}
	return &Renderer{fonts: fonts, qr: enc, qrSize: size, logger: logger}, nil
}

// loadFont reads a TrueType face and checks its signature; gofpdf only
// embeds TrueType outlines.
func loadFont(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no font path configured", types.ErrFontUnavailable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFontUnavailable, err)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %s is not a TrueType font", types.ErrFontUnavailable, path)
	}
	switch string(data[:4]) {
	case "\x00\x01\x00\x00", "true":
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a TrueType font", types.ErrFontUnavailable, path)
	}
}

// Render writes the ticket for desc to outputPath, replacing any existing
// file. scratchDir supplies the optional logo.png and receives the
// normalised logo and qr_temp.png.
// seq is the ticket's position in the batch and appears in the footer.
//
// Errors wrap types.ErrAssetIO for image failures, types.ErrFontUnavailable
// when a face cannot be embedded, and types.ErrOutputWrite when the PDF
// cannot be written.
func (r *Renderer) Render(desc types.PassDescriptor, scratchDir, outputPath string, seq int) error {
	var assets Assets
	if logo := filepath.Join(scratchDir, pkpass.LogoName); fileExists(logo) {
		normalised := filepath.Join(scratchDir, LogoFileName)
		if err := normaliseLogo(logo, normalised); err != nil {
			return fmt.Errorf("%w: logo: %v", types.ErrAssetIO, err)
		}
		assets.LogoPath = normalised
	}

	if b, ok := desc.Barcode(); ok && b.Encodable() {
		img, err := r.qr.Encode(b.Message.String(), r.qrSize)
		if err != nil {
			return fmt.Errorf("%w: %v", types.ErrAssetIO, err)
		}
		qrPath := filepath.Join(scratchDir, QRFileName)
		if err := WriteQRPNG(img, qrPath); err != nil {
			return fmt.Errorf("%w: %v", types.ErrAssetIO, err)
		}
		assets.QRPath = qrPath
	}

	els := Compose(desc, assets, seq)
	r.logger.Debug("ticket composed",
		slog.Int("seq", seq),
		slog.Int("elements", len(els)),
		slog.Bool("logo", assets.LogoPath != ""),
		slog.Bool("qr", assets.QRPath != ""),
	)

	pdf, err := r.newDocument(desc.Title())
	if err != nil {
		return err
	}
	if err := drawElements(pdf, els); err != nil {
		return err
	}
	return writePDF(pdf, outputPath)
}

func (r *Renderer) newDocument(title string) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("pkpass-converter", true)

	for _, face := range []Face{FaceRegular, FaceBold, FaceItalic} {
		pdf.AddUTF8FontFromBytes(fontFamily, string(face), r.fonts[face])
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFontUnavailable, err)
	}
	pdf.AddPage()
	return pdf, nil
}

// writePDF serialises the document next to outputPath and renames it into
// place, so a failed write never leaves a truncated ticket behind.
func writePDF(pdf *gofpdf.Fpdf, outputPath string) error {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("%w: serialising pdf: %v", types.ErrOutputWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".ingresso-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrOutputWrite, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", types.ErrOutputWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", types.ErrOutputWrite, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", types.ErrOutputWrite, err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", types.ErrOutputWrite, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
