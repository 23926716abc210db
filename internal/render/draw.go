// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/pdiddy/pkpass-converter/pkg/types"
)

var pngOptions = gofpdf.ImageOptions{ImageType: "PNG"}

// drawElements renders els onto the current page of pdf. Image failures are
// reported as types.ErrAssetIO; any other latched gofpdf error is returned
// as types.ErrOutputWrite.
func drawElements(pdf *gofpdf.Fpdf, els []Element) error {
	for _, e := range els {
		switch e.Kind {
		case KindBackground:
			pdf.SetFillColor(e.Color.R, e.Color.G, e.Color.B)
			pdf.Rect(e.X, e.Y, e.W, e.H, "F")

		case KindLogo:
			if err := drawLogo(pdf, e); err != nil {
				return err
			}

		case KindMoveTo:
			pdf.SetY(e.Y)

		case KindText:
			pdf.SetFont(fontFamily, string(e.Face), e.Size)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetX(textLeft)
			pdf.MultiCell(textWidth, e.LineH, e.Text, "", e.Align, false)

		case KindHeading:
			pdf.SetFont(fontFamily, string(e.Face), e.Size)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetX(margin)
			pdf.CellFormat(0, e.LineH, e.Text, "", 1, e.Align, false, 0, "")

		case KindSpace:
			pdf.Ln(e.H)

		case KindRule:
			y := pdf.GetY()
			pdf.SetDrawColor(e.Color.R, e.Color.G, e.Color.B)
			pdf.SetLineWidth(e.H)
			pdf.Line(e.X, y, e.X+e.W, y)

		case KindQR:
			if err := drawQR(pdf, e); err != nil {
				return err
			}

		case KindFooter:
			pdf.SetY(-e.Y)
			pdf.SetFont(fontFamily, string(e.Face), e.Size)
			pdf.SetTextColor(e.Color.R, e.Color.G, e.Color.B)
			pdf.SetX(textLeft)
			pdf.MultiCell(textWidth, e.LineH, e.Text, "", e.Align, false)
		}
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: %v", types.ErrOutputWrite, err)
	}
	return nil
}

// drawLogo centres the logo at the top, e.W wide, shrunk to at most e.H tall.
func drawLogo(pdf *gofpdf.Fpdf, e Element) error {
	info := pdf.RegisterImageOptions(e.Path, pngOptions)
	if err := pdf.Error(); err != nil || info == nil {
		return fmt.Errorf("%w: logo: %v", types.ErrAssetIO, err)
	}

	w, h := e.W, 0.0
	if iw, ih := info.Width(), info.Height(); iw > 0 && ih > 0 {
		h = w * ih / iw
		if h > e.H {
			h = e.H
			w = h * iw / ih
		}
	}
	pdf.ImageOptions(e.Path, (pageWidth-w)/2, e.Y, w, h, false, pngOptions, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: logo: %v", types.ErrAssetIO, err)
	}
	return nil
}

// drawQR places the square QR image centred at the cursor. The image is
// e.W wide unless that would run into the footer, in which case it shrinks,
// down to qrMinSize. e.H is the space kept free below the image.
func drawQR(pdf *gofpdf.Fpdf, e Element) error {
	y := pdf.GetY()
	size := e.W
	if avail := pageHeight - footerFromBottom - y - e.H; avail < size {
		size = max(avail, qrMinSize)
	}

	pdf.ImageOptions(e.Path, (pageWidth-size)/2, y, size, size, false, pngOptions, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: qr image: %v", types.ErrAssetIO, err)
	}
	pdf.SetY(y + size + 4)
	return nil
}
