package types

import (
	"fmt"
	"strings"
)

// QRBackend identifies the QR symbol encoder.
type QRBackend string

const (
	BackendSkip2     QRBackend = "skip2"
	BackendBoombuler QRBackend = "boombuler"
)

// Default font faces: DejaVu Sans as shipped by most Linux distributions.
const (
	DefaultFontRegular = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	DefaultFontBold    = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	DefaultFontItalic  = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Oblique.ttf"
)

// DefaultQRSize is the pixel width of the generated QR image.
const DefaultQRSize = 512

// FontConfig locates the three faces of the Unicode font family used on tickets.
type FontConfig struct {
	Regular string `json:"regular" yaml:"regular"`
	Bold    string `json:"bold" yaml:"bold"`
	Italic  string `json:"italic" yaml:"italic"`
}

// DefaultFontConfig returns the DejaVu Sans faces at their standard paths.
func DefaultFontConfig() FontConfig {
	return FontConfig{
		Regular: DefaultFontRegular,
		Bold:    DefaultFontBold,
		Italic:  DefaultFontItalic,
	}
}

// RenderConfig holds settings for the ticket renderer.
type RenderConfig struct {
	// Fonts locates the regular, bold and italic faces.
	Fonts FontConfig `json:"fonts" yaml:"fonts"`

	// QRBackend selects the QR encoder: skip2 or boombuler.
	QRBackend QRBackend `json:"qr_backend" yaml:"qr_backend"`

	// QRSize is the pixel width of the generated QR image (default 512).
	QRSize int `json:"qr_size" yaml:"qr_size"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format"`
}

// ConverterConfig groups all settings of a conversion run.
type ConverterConfig struct {
	// InputDir is the directory scanned for .pkpass files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives the ingresso_<N>.pdf files; created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Report is an optional path for a YAML batch report.
	Report string `json:"report,omitempty" yaml:"report,omitempty"`

	Render RenderConfig `json:"render" yaml:"render"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// ApplyDefaults fills unset render settings with their defaults.
func (c *ConverterConfig) ApplyDefaults() {
	def := DefaultFontConfig()
	if c.Render.Fonts.Regular == "" {
		c.Render.Fonts.Regular = def.Regular
	}
	if c.Render.Fonts.Bold == "" {
		c.Render.Fonts.Bold = def.Bold
	}
	if c.Render.Fonts.Italic == "" {
		c.Render.Fonts.Italic = def.Italic
	}
	if c.Render.QRBackend == "" {
		c.Render.QRBackend = BackendSkip2
	}
	if c.Render.QRSize <= 0 {
		c.Render.QRSize = DefaultQRSize
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate reports settings that cannot be used.
func (c ConverterConfig) Validate() error {
	switch c.Render.QRBackend {
	case BackendSkip2, BackendBoombuler:
	default:
		return fmt.Errorf("qr_backend: unsupported value %q (want %s or %s)", c.Render.QRBackend, BackendSkip2, BackendBoombuler)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q (want console or json)", c.Log.Format)
	}
	return nil
}
