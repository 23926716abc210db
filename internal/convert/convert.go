// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives batch conversion of pass archives into PDF tickets.
// Archives are processed one at a time in sorted filename order; a failed
// archive is reported and the batch moves on.
package convert

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/pdiddy/pkpass-converter/internal/logging"
	"github.com/pdiddy/pkpass-converter/internal/pkpass"
	"github.com/pdiddy/pkpass-converter/pkg/types"
)

const (
	// archiveGlob matches pass archives in the input directory.
	archiveGlob = "*.pkpass"
	// outputPattern names the ticket for the archive at a 1-based position.
	outputPattern = "ingresso_%d.pdf"
)

// Extractor unpacks a pass archive into a scratch directory.
type Extractor interface {
	Extract(archivePath string) (*pkpass.Scratch, error)
}

// Renderer writes the PDF ticket for a decoded pass. The render.Renderer
// implements this interface.
type Renderer interface {
	Render(desc types.PassDescriptor, scratchDir, outputPath string, seq int) error
}

// Driver runs batch conversions. Logger may be nil.
type Driver struct {
	Extractor Extractor
	Renderer  Renderer
	Logger    *slog.Logger
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return logging.Nop()
	}
	return d.Logger
}

// OutputName returns the ticket file name for the archive at index.
func OutputName(index int) string {
	return fmt.Sprintf(outputPattern, index)
}

// ConvertArchive converts the archive at the 1-based position index into
// outDir/ingresso_<index>.pdf. The scratch directory is removed before it
// returns, whether or not the conversion succeeded.
func (d *Driver) ConvertArchive(archive string, index int, outDir string) types.ItemResult {
	item := types.ItemResult{Index: index, Archive: archive, Status: types.ConversionFailed}

	output, err := d.convertArchive(archive, index, outDir)
	if err != nil {
		item.Err = err
		item.Error = err.Error()
		return item
	}
	item.Output = output
	item.Status = types.ConversionDone
	return item
}

func (d *Driver) convertArchive(archive string, index int, outDir string) (string, error) {
	scratch, err := d.Extractor.Extract(archive)
	if err != nil {
		return "", err
	}
	dir := scratch.Dir
	defer func() {
		if err := scratch.Close(); err != nil {
			d.logger().Warn("scratch cleanup failed", slog.String("dir", dir), slog.Any("error", err))
		}
	}()
	_, hasLogo := scratch.LogoPath()
	d.logger().Debug("archive extracted", slog.String("archive", filepath.Base(archive)), slog.String("dir", dir), slog.Bool("logo", hasLogo))

	desc, err := pkpass.ReadDescriptor(scratch.DescriptorPath)
	if err != nil {
		return "", err
	}

	output := filepath.Join(outDir, OutputName(index))
	if err := d.Renderer.Render(desc, dir, output, index); err != nil {
		return "", err
	}
	return output, nil
}

// ConvertBatch converts archives in the given order, numbering them from 1,
// and writes one status line per archive plus a summary to w. outDir is
// created when absent.
//
// Per-archive failures are recorded in the result and do not stop the batch.
// The returned error is non-nil only when outDir cannot be created or a
// conversion fails with types.ErrFontUnavailable, which would fail every
// remaining archive the same way.
func (d *Driver) ConvertBatch(archives []string, outDir string, w io.Writer) (types.BatchResult, error) {
	result := types.BatchResult{RunID: uuid.NewString(), OutputDir: outDir}
	log := d.logger().With(slog.String("run_id", result.RunID))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	for i, archive := range archives {
		index := i + 1
		name := filepath.Base(archive)
		item := d.ConvertArchive(archive, index, outDir)
		result.Items = append(result.Items, item)

		if item.Status == types.ConversionDone {
			result.Converted++
			fmt.Fprintf(w, "converted: %s -> %s\n", name, filepath.Base(item.Output))
			log.Info("archive converted", slog.Int("index", index), slog.String("archive", name), slog.String("output", item.Output))
			continue
		}

		result.Failed++
		fmt.Fprintf(w, "failed:    %s (%v)\n", name, item.Err)
		log.Error("archive failed", slog.Int("index", index), slog.String("archive", name), slog.String("reason", reason(item.Err)), slog.Any("error", item.Err))

		if errors.Is(item.Err, types.ErrFontUnavailable) {
			return result, fmt.Errorf("stopping batch after %s: %w", name, item.Err)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	fmt.Fprintf(w, "Conversion complete. PDFs saved in: %s\n", outDir)
	return result, nil
}

// ConvertDir converts every *.pkpass file in inputDir, in sorted filename
// order. An input directory without archives is reported with a warning and
// is not an error.
func (d *Driver) ConvertDir(inputDir, outDir string, w io.Writer) (types.BatchResult, error) {
	archives, err := FindArchives(inputDir)
	if err != nil {
		return types.BatchResult{InputDir: inputDir, OutputDir: outDir}, err
	}
	if len(archives) == 0 {
		fmt.Fprintf(w, "warning: no .pkpass files found in %s\n", inputDir)
		d.logger().Warn("no archives found", slog.String("input_dir", inputDir))
		return types.BatchResult{InputDir: inputDir, OutputDir: outDir}, nil
	}

	result, err := d.ConvertBatch(archives, outDir, w)
	result.InputDir = inputDir
	return result, err
}

// FindArchives returns the *.pkpass files directly inside dir, sorted by name.
func FindArchives(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, archiveGlob))
	if err != nil {
		return nil, fmt.Errorf("listing archives in %s: %w", dir, err)
	}
	archives := matches[:0]
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && !fi.IsDir() {
			archives = append(archives, m)
		}
	}
	sort.Strings(archives)
	return archives, nil
}

// reason maps an error to its taxonomy name for structured logs.
func reason(err error) string {
	switch {
	case errors.Is(err, types.ErrCorruptArchive):
		return "corrupt_archive"
	case errors.Is(err, types.ErrMissingDescriptor):
		return "missing_descriptor"
	case errors.Is(err, types.ErrInvalidDescriptor):
		return "invalid_descriptor"
	case errors.Is(err, types.ErrFontUnavailable):
		return "font_unavailable"
	case errors.Is(err, types.ErrAssetIO):
		return "asset_io"
	case errors.Is(err, types.ErrOutputWrite):
		return "output_write"
	default:
		return "unknown"
	}
}
