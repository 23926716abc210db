// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures of the pkpass-converter
// pipeline: the decoded pass descriptor, batch results, and configuration.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultTitle is the ticket title used when the descriptor has no usable
// primary field.
const DefaultTitle = "Ingresso"

// DefaultAltText is the ticket number shown when the barcode carries no altText.
const DefaultAltText = "-"

// PassDescriptor is the subset of pass.json the converter consumes.
type PassDescriptor struct {
	// Description is the free-text pass description.
	Description string `json:"description"`

	// EventTicket holds the field groups of an eventTicket pass.
	EventTicket EventTicket `json:"eventTicket"`

	// Barcodes is the ordered barcode list; only the first entry is used.
	Barcodes []Barcode `json:"barcodes"`

	// LegacyBarcode is the deprecated singular barcode, used when Barcodes is empty.
	LegacyBarcode *Barcode `json:"barcode"`
}

// EventTicket groups the fields of an eventTicket pass style.
type EventTicket struct {
	PrimaryFields   []Field `json:"primaryFields"`
	HeaderFields    []Field `json:"headerFields"`
	SecondaryFields []Field `json:"secondaryFields"`
	AuxiliaryFields []Field `json:"auxiliaryFields"`
}

// Field is a single label/value pair of a pass field group.
type Field struct {
	Key   string     `json:"key"`
	Label FieldValue `json:"label"`
	Value FieldValue `json:"value"`
}

// Line formats the field as a "Label: Value" detail line.
func (f Field) Line() string {
	return fmt.Sprintf("%s: %s", f.Label, f.Value)
}

// Barcode is the payload of the scannable code on a pass.
type Barcode struct {
	Message         FieldValue `json:"message"`
	Format          string     `json:"format"`
	MessageEncoding string     `json:"messageEncoding"`
	AltText         FieldValue `json:"altText"`
}

// TicketNumber returns the human-readable ticket number, DefaultAltText when
// the barcode has none.
func (b Barcode) TicketNumber() string {
	if b.AltText == "" {
		return DefaultAltText
	}
	return b.AltText.String()
}

// Encodable reports whether the barcode carries a message for the QR image.
func (b Barcode) Encodable() bool {
	return b.Message != ""
}

// Title returns the first primary field value, or DefaultTitle when there
// is none or it is empty.
func (d PassDescriptor) Title() string {
	if len(d.EventTicket.PrimaryFields) == 0 {
		return DefaultTitle
	}
	if v := d.EventTicket.PrimaryFields[0].Value.String(); v != "" {
		return v
	}
	return DefaultTitle
}

// DetailLines returns one "Label: Value" line per header, secondary and
// auxiliary field, in that group order.
func (d PassDescriptor) DetailLines() []string {
	groups := [][]Field{
		d.EventTicket.HeaderFields,
		d.EventTicket.SecondaryFields,
		d.EventTicket.AuxiliaryFields,
	}
	var lines []string
	for _, g := range groups {
		for _, f := range g {
			lines = append(lines, f.Line())
		}
	}
	return lines
}

// Barcode resolves the barcode payload: the first entry of Barcodes, else the
// legacy singular barcode. The second return value is false when the pass has
// neither. A resolved barcode may still lack a message; see Encodable.
func (d PassDescriptor) Barcode() (Barcode, bool) {
	switch {
	case len(d.Barcodes) > 0:
		return d.Barcodes[0], true
	case d.LegacyBarcode != nil:
		return *d.LegacyBarcode, true
	default:
		return Barcode{}, false
	}
}

// FieldValue is a pass field label or value. The Wallet format allows
// strings, numbers and dates there; numbers keep their literal JSON text.
// Null, objects and arrays decode to the empty string.
type FieldValue string

// String returns the value as text.
func (v FieldValue) String() string { return string(v) }

// UnmarshalJSON accepts JSON strings, numbers, booleans and null.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FieldValue(s)
	case data[0] == '{' || data[0] == '[':
		*v = ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*v = FieldValue(n.String())
			return nil
		}
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = FieldValue(fmt.Sprint(b))
	}
	return nil
}
