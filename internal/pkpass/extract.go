// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pkpass unpacks Apple Wallet pass archives and decodes their
// pass.json descriptor.
package pkpass

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pkpass-converter/pkg/types"
)

const (
	// DescriptorName is the descriptor file at the archive root.
	DescriptorName = "pass.json"
	// LogoName is the optional logo image at the archive root.
	LogoName = "logo.png"

	scratchPattern = "pkpass-*"
	// maxEntryBytes bounds a single extracted file; real passes are a few hundred KB.
	maxEntryBytes = 64 << 20
)

// Scratch is the extracted contents of one pass archive. It is owned by a
// single conversion; Close removes the directory and everything in it.
type Scratch struct {
	// Dir is the scratch directory holding the extracted tree.
	Dir string

	// DescriptorPath is the path of pass.json inside Dir.
	DescriptorPath string
}

// LogoPath returns the path of logo.png inside the scratch directory and
// whether that file exists.
func (s *Scratch) LogoPath() (string, bool) {
	p := filepath.Join(s.Dir, LogoName)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return p, false
	}
	return p, true
}

// Close removes the scratch directory. It is safe to call more than once.
func (s *Scratch) Close() error {
	if s == nil || s.Dir == "" {
		return nil
	}
	err := os.RemoveAll(s.Dir)
	s.Dir = ""
	return err
}

// Extractor unpacks pass archives into fresh scratch directories.
type Extractor struct {
	// TempDir is the parent of scratch directories; empty means os.TempDir().
	TempDir string
}

// Extract unpacks the archive at archivePath into a new scratch directory and
// locates pass.json. On error the scratch directory has already been removed.
// Errors wrap types.ErrCorruptArchive or types.ErrMissingDescriptor.
func (e Extractor) Extract(archivePath string) (*Scratch, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", types.ErrCorruptArchive, filepath.Base(archivePath), err)
	}
	defer zr.Close()

	dir, err := os.MkdirTemp(e.TempDir, scratchPattern)
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	s := &Scratch{Dir: dir}

	if err := extractAll(&zr.Reader, dir); err != nil {
		s.Close()
		return nil, err
	}

	descriptor := filepath.Join(dir, DescriptorName)
	if info, err := os.Stat(descriptor); err != nil || info.IsDir() {
		s.Close()
		return nil, fmt.Errorf("%w: %s", types.ErrMissingDescriptor, filepath.Base(archivePath))
	}
	s.DescriptorPath = descriptor
	return s, nil
}

func extractAll(zr *zip.Reader, dir string) error {
	for _, f := range zr.File {
		target, err := entryPath(dir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", f.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.Name, err)
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// entryPath maps an archive entry name to a path under dir, rejecting names
// that would land outside it.
func entryPath(dir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: entry %q escapes the archive root", types.ErrCorruptArchive, name)
	}
	return filepath.Join(dir, clean), nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: opening entry %s: %v", types.ErrCorruptArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("writing %s: %w", f.Name, err)
	}

	n, err := io.Copy(out, io.LimitReader(rc, maxEntryBytes+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: reading entry %s: %v", types.ErrCorruptArchive, f.Name, err)
		}
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if n > maxEntryBytes {
		return fmt.Errorf("%w: entry %s exceeds %d bytes", types.ErrCorruptArchive, f.Name, maxEntryBytes)
	}
	return nil
}
