// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pkpass-converter/pkg/types"
)

// report is the YAML document written by WriteReport.
type report struct {
	GeneratedAt       string `yaml:"generated_at"`
	types.BatchResult `yaml:",inline"`
}

// WriteReport writes result as a YAML batch report to path, creating the
// parent directory if needed.
func WriteReport(path string, result types.BatchResult) error {
	doc := report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		BatchResult: result,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshalling batch report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing batch report %s: %w", path, err)
	}
	return nil
}
