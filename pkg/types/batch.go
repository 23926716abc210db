// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionStatus indicates the outcome of converting one pass archive.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// ItemResult records the conversion of a single archive.
type ItemResult struct {
	// Index is the 1-based position of the archive in the sorted input listing.
	// It also numbers the output file, so failed archives leave gaps.
	Index int `json:"index" yaml:"index"`

	// Archive is the path of the source .pkpass file.
	Archive string `json:"archive" yaml:"archive"`

	// Output is the path of the rendered PDF; empty when the conversion failed.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Status is the conversion outcome.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Error is the failure message when Status is ConversionFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Err is the failure itself, kept for errors.Is checks by the caller.
	Err error `json:"-" yaml:"-"`
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	RunID     string       `json:"run_id" yaml:"run_id"`
	InputDir  string       `json:"input_dir,omitempty" yaml:"input_dir,omitempty"`
	OutputDir string       `json:"output_dir" yaml:"output_dir"`
	Converted int          `json:"converted" yaml:"converted"`
	Failed    int          `json:"failed" yaml:"failed"`
	Items     []ItemResult `json:"items" yaml:"items"`
}

// Total returns the total number of archives processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any archive failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}
