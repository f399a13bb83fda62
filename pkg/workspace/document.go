// Package workspace implements the collaborators around an extraction:
// reading and writing documents, formatting them, moving a component into a
// new file and patching imports in the result.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/edsrzf/mmap-go"
)

const (
	// DocumentPattern selects the documents extraction is offered for.
	DocumentPattern = "**/*.{js,jsx,ts,tsx}"

	// NewFilePattern matches files a move can create next to a document.
	NewFilePattern = "*.{js,jsx,ts,tsx}"
)

// IsSupportedDocument reports whether path matches DocumentPattern.
func IsSupportedDocument(path string) bool {
	rel := strings.TrimPrefix(filepath.ToSlash(path), "/")
	ok, _ := doublestar.Match(DocumentPattern, rel)
	return ok
}

// ReadDocument returns the text of path. The file is read through a
// read-only memory map and copied out before the map is released; empty
// files and files that cannot be mapped are read with os.ReadFile.
func ReadDocument(path string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document %q: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat document %q: %w", path, err)
	}
	if stat.Size() == 0 {
		return "", nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		logger.Warn("mmap failed, using fallback", "file", path, "size", stat.Size(), "error", err)
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return "", fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		return string(raw), nil
	}
	text := string(data)
	if err := data.Unmap(); err != nil {
		logger.Warn("failed to unmap document", "file", path, "error", err)
	}
	return text, nil
}

// WriteDocument replaces the contents of path. The text is written to a
// temporary file in the same directory and renamed over path, so readers
// never see a partial document. An existing file keeps its permissions.
func WriteDocument(path, text string) error {
	mode := os.FileMode(0o644)
	if stat, err := os.Stat(path); err == nil {
		mode = stat.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %q: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set mode on %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}
