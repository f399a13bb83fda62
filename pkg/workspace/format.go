package workspace

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Formatter normalizes a document's text after an edit.
type Formatter interface {
	Format(ctx context.Context, path, text string) (string, error)
}

// NopFormatter returns text unchanged.
type NopFormatter struct{}

// Format implements Formatter.
func (NopFormatter) Format(_ context.Context, _ string, text string) (string, error) {
	return text, nil
}

// CommandFormatter pipes the document through an external formatter such as
// "prettier --stdin-filepath {file}". The formatted text is read from
// stdout.
type CommandFormatter struct {
	command []string
}

// NewCommandFormatter splits command on whitespace.
func NewCommandFormatter(command string) (*CommandFormatter, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty format command")
	}
	return &CommandFormatter{command: fields}, nil
}

// Format implements Formatter.
func (f *CommandFormatter) Format(ctx context.Context, path, text string) (string, error) {
	args := expandPlaceholders(f.command, map[string]string{"{file}": path})

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = filepath.Dir(path)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("format command %q failed: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
