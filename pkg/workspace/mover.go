package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gnana997/jsxextract/pkg/parser"
)

// MoveRequest names the lines of a document to move into a new file.
type MoveRequest struct {
	// DocumentPath is the document on disk, already holding the extracted
	// component.
	DocumentPath string

	// StartLine and EndLine are the 0-based line range [StartLine, EndLine)
	// of the component.
	StartLine int
	EndLine   int

	// Name is the component name.
	Name string
}

// Mover moves a range of lines out of a document into a new file next to
// it. Implementations work on disk: the document is rewritten in place and
// the new file is created in the document's directory.
type Mover interface {
	Move(ctx context.Context, req MoveRequest) error
}

// FileMover writes the component to <Name><Extension>, exports it as the
// default export and imports it back into the document. Top-level names the
// component uses travel with it: imports are copied into the new file, and
// declarations of the document are exported from it and imported back.
type FileMover struct {
	parser    *parser.ParserManager
	extension string
	logger    *slog.Logger
}

// NewFileMover creates a FileMover. An empty extension reuses the
// document's extension.
func NewFileMover(pm *parser.ParserManager, extension string, logger *slog.Logger) *FileMover {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileMover{parser: pm, extension: extension, logger: logger}
}

// Move implements Mover.
func (m *FileMover) Move(ctx context.Context, req MoveRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text, err := ReadDocument(req.DocumentPath, m.logger)
	if err != nil {
		return err
	}
	lines := strings.SplitAfter(text, "\n")
	if req.StartLine < 0 || req.EndLine > len(lines) || req.StartLine >= req.EndLine {
		return fmt.Errorf("line range [%d,%d) outside document of %d lines", req.StartLine, req.EndLine, len(lines))
	}

	ext := m.extension
	if ext == "" {
		ext = filepath.Ext(req.DocumentPath)
	}
	target := filepath.Join(filepath.Dir(req.DocumentPath), req.Name+ext)

	start := len(strings.Join(lines[:req.StartLine], ""))
	end := start + len(strings.Join(lines[req.StartLine:req.EndLine], ""))
	removeEnd := end
	for i := req.EndLine; i < len(lines) && strings.TrimSpace(lines[i]) == ""; i++ {
		removeEnd += len(lines[i])
	}

	grammar := parser.GrammarForFile(req.DocumentPath)
	documentModule := "./" + strings.TrimSuffix(filepath.Base(req.DocumentPath), filepath.Ext(req.DocumentPath))
	deps, err := componentDependencies(m.parser, text, grammar, start, end, req.Name, documentModule)
	if err != nil {
		return err
	}

	var content strings.Builder
	for _, imp := range deps.imports {
		content.WriteString(imp + "\n")
	}
	if len(deps.imports) > 0 {
		content.WriteString("\n")
	}
	fmt.Fprintf(&content, "%s\n\nexport default %s;\n", strings.TrimRight(text[start:end], "\n"), req.Name)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", target, err)
	}
	if _, err := f.WriteString(content.String()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %q: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %q: %w", target, err)
	}

	// Exports all sit outside the moved range; apply them back to front so
	// earlier offsets stay valid.
	remaining := text[:start] + text[removeEnd:]
	for i := len(deps.exports) - 1; i >= 0; i-- {
		at := deps.exports[i]
		if at >= removeEnd {
			at -= removeEnd - start
		}
		remaining = remaining[:at] + "export " + remaining[at:]
	}

	remaining, err = AddDefaultImport(m.parser, remaining, grammar, "./"+req.Name, req.Name)
	if err != nil {
		return err
	}
	if err := WriteDocument(req.DocumentPath, remaining); err != nil {
		return err
	}

	m.logger.Info("Moved component to new file",
		"component", req.Name,
		"file", target,
		"imports", len(deps.imports),
		"exports", len(deps.exports))
	return nil
}

// CommandMover delegates the move to an external command. Arguments may use
// the placeholders {file}, {start}, {end} (0-based lines, end exclusive)
// and {name}.
type CommandMover struct {
	command []string
	logger  *slog.Logger
}

// NewCommandMover splits command on whitespace.
func NewCommandMover(command string, logger *slog.Logger) (*CommandMover, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty move command")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandMover{command: fields, logger: logger}, nil
}

// Move implements Mover.
func (m *CommandMover) Move(ctx context.Context, req MoveRequest) error {
	args := expandPlaceholders(m.command, map[string]string{
		"{file}":  req.DocumentPath,
		"{start}": strconv.Itoa(req.StartLine),
		"{end}":   strconv.Itoa(req.EndLine),
		"{name}":  req.Name,
	})

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = filepath.Dir(req.DocumentPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("move command %q failed: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	m.logger.Debug("Move command finished", "command", args[0], "output", string(out))
	return nil
}

func expandPlaceholders(command []string, values map[string]string) []string {
	args := make([]string, len(command))
	for i, arg := range command {
		for key, value := range values {
			arg = strings.ReplaceAll(arg, key, value)
		}
		args[i] = arg
	}
	return args
}
