// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Conversion failure taxonomy. Stages wrap these with fmt.Errorf("...: %w")
// so callers classify failures with errors.Is.
var (
	// ErrCorruptArchive means the pass archive is not a readable zip file.
	ErrCorruptArchive = errors.New("corrupt pass archive")

	// ErrMissingDescriptor means the archive has no pass.json at its root.
	ErrMissingDescriptor = errors.New("pass.json not found in archive")

	// ErrInvalidDescriptor means pass.json is not valid JSON for a pass.
	ErrInvalidDescriptor = errors.New("invalid pass descriptor")

	// ErrFontUnavailable means a required font face could not be loaded.
	// It affects every conversion identically, so a batch stops on it.
	ErrFontUnavailable = errors.New("font unavailable")

	// ErrAssetIO means an image asset could not be read, encoded or written.
	ErrAssetIO = errors.New("asset i/o error")

	// ErrOutputWrite means the PDF could not be written to its output path.
	ErrOutputWrite = errors.New("output write error")
)
