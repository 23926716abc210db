// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"

	"github.com/pdiddy/pkpass-converter/pkg/types"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 10.0

	// Text blocks are 180 mm wide, centred on the page.
	textLeft  = 15.0
	textWidth = 180.0

	logoTop       = 20.0
	logoWidth     = 70.0
	logoMaxHeight = 45.0
	contentTop    = 70.0

	qrMaxSize = 70.0
	qrMinSize = 30.0

	footerFromBottom = 20.0
)

// Fixed ticket strings.
const (
	DetailsHeading  = "Event Details"
	QRHeading       = "QR Code"
	ticketNumberFmt = "Ticket Number: %s"
	footerFmt       = "Ticket generated automatically (ingresso_%d)"
)

// Face is a font face of the ticket font family.
type Face string

const (
	FaceRegular Face = ""
	FaceBold    Face = "B"
	FaceItalic  Face = "I"
)

// Kind identifies a layout element.
type Kind string

const (
	KindBackground Kind = "background"
	KindLogo       Kind = "logo"
	KindMoveTo     Kind = "move-to"
	KindText       Kind = "text"
	KindHeading    Kind = "heading"
	KindSpace      Kind = "space"
	KindRule       Kind = "rule"
	KindQR         Kind = "qr"
	KindFooter     Kind = "footer"
)

// Color is an RGB colour.
type Color struct{ R, G, B int }

// Element is one drawing step of the ticket. Elements flow top to bottom:
// text, headings, spaces and the QR image advance the cursor; background,
// logo and footer are placed at fixed positions.
type Element struct {
	Kind Kind

	// Text content for text, heading and footer elements.
	Text  string
	Face  Face
	Size  float64 // points
	LineH float64 // line height in mm
	Align string  // gofpdf alignment: "L", "C", "R"

	// Geometry, in mm. Meaning depends on Kind.
	X, Y, W, H float64

	// Path of the image for logo and qr elements.
	Path string

	Color Color
}

// Assets are the optional images available to a ticket.
type Assets struct {
	// LogoPath is the logo image; empty when the pass has none.
	LogoPath string

	// QRPath is the rendered QR image; empty when the pass has no barcode.
	QRPath string
}

// Compose lays out the ticket for desc as a list of drawing elements.
// The result depends only on its inputs, so composing the same pass twice
// yields the same elements.
func Compose(desc types.PassDescriptor, assets Assets, seq int) []Element {
	els := []Element{
		{Kind: KindBackground, X: margin, Y: margin, W: pageWidth - 2*margin, H: pageHeight - 2*margin, Color: Color{245, 245, 245}},
	}

	if assets.LogoPath != "" {
		els = append(els, Element{Kind: KindLogo, Path: assets.LogoPath, Y: logoTop, W: logoWidth, H: logoMaxHeight})
	}
	els = append(els, Element{Kind: KindMoveTo, Y: contentTop})

	els = append(els,
		Element{Kind: KindText, Text: desc.Title(), Face: FaceBold, Size: 18, LineH: 12, Align: "C"},
		Element{Kind: KindSpace, H: 3},
	)
	if desc.Description != "" {
		els = append(els, Element{Kind: KindText, Text: desc.Description, Face: FaceRegular, Size: 11, LineH: 8, Align: "C"})
	}
	els = append(els,
		Element{Kind: KindSpace, H: 10},
		Element{Kind: KindRule, X: 20, W: pageWidth - 40, H: 0.4, Color: Color{180, 180, 180}},
		Element{Kind: KindSpace, H: 6},
		Element{Kind: KindHeading, Text: DetailsHeading, Face: FaceBold, Size: 14, LineH: 10, Align: "C"},
	)
	for _, line := range desc.DetailLines() {
		els = append(els, Element{Kind: KindText, Text: line, Face: FaceRegular, Size: 12, LineH: 8, Align: "L"})
	}
	els = append(els, Element{Kind: KindSpace, H: 10})

	if b, ok := desc.Barcode(); ok {
		if assets.QRPath != "" {
			els = append(els,
				Element{Kind: KindHeading, Text: QRHeading, Face: FaceBold, Size: 14, LineH: 10, Align: "C"},
				// H reserves room below the image for the ticket number line.
				Element{Kind: KindQR, Path: assets.QRPath, W: qrMaxSize, H: 12},
			)
		}
		els = append(els, Element{Kind: KindText, Text: fmt.Sprintf(ticketNumberFmt, b.TicketNumber()), Face: FaceBold, Size: 12, LineH: 8, Align: "C"})
	}

	els = append(els, Element{
		Kind: KindFooter, Text: fmt.Sprintf(footerFmt, seq),
		Face: FaceItalic, Size: 9, LineH: 8, Align: "C",
		Y: footerFromBottom, Color: Color{110, 110, 110},
	})
	return els
}

// Lines returns the text of every text, heading and footer element in
// drawing order.
func Lines(els []Element) []string {
	var out []string
	for _, e := range els {
		switch e.Kind {
		case KindText, KindHeading, KindFooter:
			out = append(out, e.Text)
		}
	}
	return out
}
