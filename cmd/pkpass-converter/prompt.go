package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

const (
	defaultInputSubdir  = "Downloads"
	defaultOutputSubdir = "Ingressos_PDF"
)

// stdinIsTerminal is a test seam for term.IsTerminal on stdin.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// dirPrompter asks for the input and output directories when they were not
// configured. Without a terminal it takes the defaults silently.
type dirPrompter struct {
	reader      *bufio.Reader
	w           io.Writer
	home        string
	interactive bool
}

// resolve fills empty input and output directories with the user's answer or
// the default, expanding a leading ~ in both.
func (p dirPrompter) resolve(input, output string) (string, string, error) {
	var err error
	if input == "" {
		def := filepath.Join(p.home, defaultInputSubdir)
		input, err = p.ask("Folder with the .pkpass files", def)
		if err != nil {
			return "", "", err
		}
	}
	input = expandHome(input, p.home)

	if output == "" {
		def := filepath.Join(input, defaultOutputSubdir)
		output, err = p.ask("Folder to save the PDFs", def)
		if err != nil {
			return "", "", err
		}
	}
	output = expandHome(output, p.home)
	return input, output, nil
}

// ask prints prompt with its default and reads one line. An empty answer, or
// end of input, selects the default.
func (p dirPrompter) ask(prompt, def string) (string, error) {
	if !p.interactive {
		return def, nil
	}
	if _, err := fmt.Fprintf(p.w, "%s [%s]: ", prompt, def); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return def, nil
}

// expandHome replaces a leading ~ with home.
func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		return filepath.Join(home, path[2:])
	}
	return path
}
