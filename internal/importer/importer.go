// Package importer turns a file on disk into the normalized plain text the
// library consumes. Plain text files are read as UTF-8; PDFs go through
// text extraction.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result is the normalized outcome of reading a source file.
type Result struct {
	Title      string
	SourcePath string
	Text       string
}

// Read loads the file at path, expanding a leading ~, and extracts its
// text. The title is derived from the file name without its extension.
func Read(path string) (Result, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return Result{}, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return Result{}, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("%s is a directory, not a file", abs)
	}

	var body string
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".pdf":
		body, err = extractPDFText(abs)
	default:
		body, err = readTextFile(abs)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Title:      titleFromPath(abs),
		SourcePath: abs,
		Text:       body,
	}, nil
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func extractPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return builder.String(), nil
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" {
		return "Untitled"
	}
	return base
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand ~: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
