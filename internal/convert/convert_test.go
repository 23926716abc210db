// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/pkpass-converter/internal/pkpass"
	"github.com/pdiddy/pkpass-converter/pkg/types"
)

// fakeRenderer implements Renderer for testing. It writes a small marker
// file at the output path and records every call.
type fakeRenderer struct {
	calls    []renderCall
	failFor  map[int]error
	scratchs []string
}

type renderCall struct {
	title  string
	lines  []string
	output string
	seq    int
	logo   bool
}

func (f *fakeRenderer) Render(desc types.PassDescriptor, scratchDir, outputPath string, seq int) error {
	_, logoErr := os.Stat(filepath.Join(scratchDir, "logo.png"))
	f.calls = append(f.calls, renderCall{
		title:  desc.Title(),
		lines:  desc.DetailLines(),
		output: outputPath,
		seq:    seq,
		logo:   logoErr == nil,
	})
	f.scratchs = append(f.scratchs, scratchDir)
	if err := f.failFor[seq]; err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(fmt.Sprintf("ticket %d: %s", seq, desc.Title())), 0o644)
}

// writePass writes a .pkpass archive holding the given entries into dir.
func writePass(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for entry, content := range entries {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func passJSON(title string) string {
	return fmt.Sprintf(`{"description":"d","eventTicket":{"primaryFields":[{"key":"e","value":%q}],"headerFields":[{"label":"Date","value":"2024-01-01"}]}}`, title)
}

func newDriver(t *testing.T, r Renderer) (*Driver, string) {
	t.Helper()
	scratchParent := t.TempDir()
	return &Driver{Extractor: pkpass.Extractor{TempDir: scratchParent}, Renderer: r}, scratchParent
}

func TestConvertDirSkipsMissingDescriptor(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "Ingressos_PDF")

	writePass(t, inDir, "C.pkpass", map[string]string{"pass.json": passJSON("Show C")})
	writePass(t, inDir, "A.pkpass", map[string]string{"pass.json": passJSON("Show A"), "logo.png": "png"})
	writePass(t, inDir, "B.pkpass", map[string]string{"icon.png": "png"})

	r := &fakeRenderer{}
	d, scratchParent := newDriver(t, r)
	var log bytes.Buffer

	result, err := d.ConvertDir(inDir, outDir, &log)
	if err != nil {
		t.Fatalf("ConvertDir: %v", err)
	}

	if result.Converted != 2 || result.Failed != 1 || result.Total() != 3 {
		t.Errorf("result = %d converted, %d failed, want 2 and 1", result.Converted, result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}

	for name, title := range map[string]string{"ingresso_1.pdf": "Show A", "ingresso_3.pdf": "Show C"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("expected %s: %v", name, err)
			continue
		}
		if !strings.Contains(string(data), title) {
			t.Errorf("%s = %q, want ticket for %s", name, data, title)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "ingresso_2.pdf")); !os.IsNotExist(err) {
		t.Error("ingresso_2.pdf should not exist for the archive without pass.json")
	}

	b := result.Items[1]
	if b.Index != 2 || b.Status != types.ConversionFailed || !errors.Is(b.Err, types.ErrMissingDescriptor) {
		t.Errorf("item B = %+v, want failed missing descriptor at index 2", b)
	}

	output := log.String()
	for _, want := range []string{"converted: A.pkpass -> ingresso_1.pdf", "failed:    B.pkpass", "converted: C.pkpass -> ingresso_3.pdf", "Batch summary:", outDir} {
		if !strings.Contains(output, want) {
			t.Errorf("log output missing %q:\n%s", want, output)
		}
	}

	if len(r.calls) != 2 || r.calls[0].seq != 1 || r.calls[1].seq != 3 {
		t.Fatalf("render calls = %+v, want seq 1 and 3", r.calls)
	}
	if !r.calls[0].logo || r.calls[1].logo {
		t.Error("logo should be visible only to the first archive's render")
	}
	if got := r.calls[0].lines; len(got) != 1 || got[0] != "Date: 2024-01-01" {
		t.Errorf("detail lines = %q", got)
	}

	left, err := os.ReadDir(scratchParent)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("scratch directories left behind: %d", len(left))
	}
	if r.scratchs[0] == r.scratchs[1] {
		t.Error("archives should not share a scratch directory")
	}
}

func TestConvertBatchFailures(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
		raw     string
		wantErr error
	}{
		{"corrupt archive", nil, "garbage", types.ErrCorruptArchive},
		{"missing descriptor", map[string]string{"logo.png": "x"}, "", types.ErrMissingDescriptor},
		{"invalid descriptor", map[string]string{"pass.json": "{not json"}, "", types.ErrInvalidDescriptor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inDir := t.TempDir()
			var archive string
			if tt.raw != "" {
				archive = filepath.Join(inDir, "x.pkpass")
				if err := os.WriteFile(archive, []byte(tt.raw), 0o644); err != nil {
					t.Fatal(err)
				}
			} else {
				archive = writePass(t, inDir, "x.pkpass", tt.entries)
			}
			good := writePass(t, inDir, "y.pkpass", map[string]string{"pass.json": passJSON("ok")})

			d, _ := newDriver(t, &fakeRenderer{})
			var log bytes.Buffer
			result, err := d.ConvertBatch([]string{archive, good}, t.TempDir(), &log)
			if err != nil {
				t.Fatalf("ConvertBatch: %v", err)
			}
			if !errors.Is(result.Items[0].Err, tt.wantErr) {
				t.Errorf("item error = %v, want %v", result.Items[0].Err, tt.wantErr)
			}
			if result.Items[1].Status != types.ConversionDone {
				t.Error("batch should continue after a failed archive")
			}
			if !strings.Contains(log.String(), "failed:    x.pkpass") {
				t.Errorf("log output %q does not report x.pkpass", log.String())
			}
		})
	}
}

func TestConvertBatchStopsOnFontUnavailable(t *testing.T) {
	inDir := t.TempDir()
	a := writePass(t, inDir, "a.pkpass", map[string]string{"pass.json": passJSON("a")})
	b := writePass(t, inDir, "b.pkpass", map[string]string{"pass.json": passJSON("b")})

	r := &fakeRenderer{failFor: map[int]error{1: fmt.Errorf("%w: DejaVuSans.ttf", types.ErrFontUnavailable)}}
	d, _ := newDriver(t, r)
	var log bytes.Buffer

	result, err := d.ConvertBatch([]string{a, b}, t.TempDir(), &log)
	if !errors.Is(err, types.ErrFontUnavailable) {
		t.Fatalf("err = %v, want ErrFontUnavailable", err)
	}
	if len(r.calls) != 1 {
		t.Errorf("render calls = %d, want 1", len(r.calls))
	}
	if result.Failed != 1 || len(result.Items) != 1 {
		t.Errorf("result = %+v, want a single failed item", result)
	}
}

func TestConvertBatchContinuesOnRenderError(t *testing.T) {
	inDir := t.TempDir()
	a := writePass(t, inDir, "a.pkpass", map[string]string{"pass.json": passJSON("a")})
	b := writePass(t, inDir, "b.pkpass", map[string]string{"pass.json": passJSON("b")})

	r := &fakeRenderer{failFor: map[int]error{1: fmt.Errorf("%w: disk full", types.ErrOutputWrite)}}
	d, _ := newDriver(t, r)

	result, err := d.ConvertBatch([]string{a, b}, t.TempDir(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ConvertBatch: %v", err)
	}
	if result.Converted != 1 || result.Failed != 1 {
		t.Errorf("result = %d converted, %d failed, want 1 and 1", result.Converted, result.Failed)
	}
	if got := reason(result.Items[0].Err); got != "output_write" {
		t.Errorf("reason = %q, want output_write", got)
	}
}

func TestConvertDirEmpty(t *testing.T) {
	inDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(t.TempDir(), "out")

	r := &fakeRenderer{}
	d, _ := newDriver(t, r)
	var log bytes.Buffer
	result, err := d.ConvertDir(inDir, outDir, &log)
	if err != nil {
		t.Fatalf("ConvertDir: %v", err)
	}
	if result.Total() != 0 || len(r.calls) != 0 {
		t.Errorf("expected a no-op batch, got %+v", result)
	}
	if !strings.Contains(log.String(), "warning: no .pkpass files found") {
		t.Errorf("log output %q lacks the empty-input warning", log.String())
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("output directory should not be created for an empty batch")
	}
}

func TestConvertDirMissingInput(t *testing.T) {
	d, _ := newDriver(t, &fakeRenderer{})
	_, err := d.ConvertDir(filepath.Join(t.TempDir(), "nope"), t.TempDir(), &bytes.Buffer{})
	if err == nil {
		t.Error("expected an error for a missing input directory")
	}
}

func TestFindArchives(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pkpass", "a.pkpass", "c.PKPASS", "readme.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir.pkpass"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindArchives(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.pkpass"), filepath.Join(dir, "b.pkpass")}
	if len(got) != len(want) {
		t.Fatalf("FindArchives = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FindArchives[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOutputName(t *testing.T) {
	if got := OutputName(12); got != "ingresso_12.pdf" {
		t.Errorf("OutputName(12) = %q", got)
	}
}
