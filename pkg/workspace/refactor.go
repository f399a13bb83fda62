package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gnana997/jsxextract/pkg/extract"
	"github.com/gnana997/jsxextract/pkg/parser"
)

// DefaultNewFileTimeout bounds the wait for the file a move creates.
const DefaultNewFileTimeout = 10 * time.Second

// RefactorConfig wires a Refactorer.
type RefactorConfig struct {
	Parser    *parser.ParserManager
	Formatter Formatter // nil means NopFormatter
	Mover     Mover     // required for ToFile requests

	// ReactModule and ReactName form the default import injected into a
	// new component file (default: import React from "react").
	ReactModule string
	ReactName   string

	NewFileTimeout time.Duration
	Logger         *slog.Logger
}

// Request is one extraction against a document on disk.
type Request struct {
	Path    string
	Start   int
	End     int
	Name    string
	Options extract.Options

	// ToFile moves the new component into its own file.
	ToFile bool
}

// Outcome describes the documents a Refactor call wrote.
type Outcome struct {
	Result   *extract.Result `json:"result"`
	Document string          `json:"document"`
	NewFile  string          `json:"new_file,omitempty"`
}

// Refactorer runs the extract-to-function and extract-to-file flows: it
// computes the extraction, applies it to the document, formats, and
// optionally moves the component into a new file.
type Refactorer struct {
	extractor *extract.Extractor
	config    RefactorConfig
	logger    *slog.Logger
}

// NewRefactorer creates a Refactorer.
func NewRefactorer(config RefactorConfig) *Refactorer {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Formatter == nil {
		config.Formatter = NopFormatter{}
	}
	if config.ReactModule == "" {
		config.ReactModule = "react"
	}
	if config.ReactName == "" {
		config.ReactName = "React"
	}
	if config.NewFileTimeout <= 0 {
		config.NewFileTimeout = DefaultNewFileTimeout
	}
	return &Refactorer{
		extractor: extract.NewExtractor(config.Parser, config.Logger),
		config:    config,
		logger:    config.Logger,
	}
}

// Refactor extracts the selection of req.Path and writes the result. Nothing
// is written when the extraction itself fails.
func (r *Refactorer) Refactor(ctx context.Context, req Request) (*Outcome, error) {
	path, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", req.Path, err)
	}
	if req.ToFile && r.config.Mover == nil {
		return nil, fmt.Errorf("no mover configured for extract to file")
	}

	source, err := ReadDocument(path, r.logger)
	if err != nil {
		return nil, err
	}
	result, err := r.extractor.Extract(source, req.Start, req.End, req.Name, req.Options)
	if err != nil {
		return nil, err
	}
	document, componentAt, err := extract.ApplyEdits(source, req.Start, req.End, result)
	if err != nil {
		return nil, err
	}
	startLine, endLine := extract.ComponentLines(document, componentAt, result)

	if !req.ToFile {
		document, err = r.config.Formatter.Format(ctx, path, document)
		if err != nil {
			return nil, err
		}
		if err := WriteDocument(path, document); err != nil {
			return nil, err
		}
		r.logger.Info("Extracted component", "component", req.Name, "file", path, "props", len(result.Props))
		return &Outcome{Result: result, Document: path}, nil
	}

	// The document is written unformatted so the component's line range
	// is still exact when the mover reads it.
	if err := WriteDocument(path, document); err != nil {
		return nil, err
	}
	newFile, err := r.moveToNewFile(ctx, path, MoveRequest{
		DocumentPath: path,
		StartLine:    startLine,
		EndLine:      endLine,
		Name:         req.Name,
	})
	if err != nil {
		return nil, err
	}
	if err := r.formatFile(ctx, path, nil); err != nil {
		return nil, err
	}
	if err := r.formatFile(ctx, newFile, r.ensureReactImport); err != nil {
		return nil, err
	}

	r.logger.Info("Extracted component to file", "component", req.Name, "file", path, "new_file", newFile)
	return &Outcome{Result: result, Document: path, NewFile: newFile}, nil
}

// moveToNewFile runs the mover with a watcher registered beforehand and
// returns the file it created.
func (r *Refactorer) moveToNewFile(ctx context.Context, path string, req MoveRequest) (string, error) {
	watcher, err := WatchNewFiles(filepath.Dir(path), path, r.logger)
	if err != nil {
		return "", err
	}
	defer watcher.Close()

	if err := r.config.Mover.Move(ctx, req); err != nil {
		return "", fmt.Errorf("move to new file: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, r.config.NewFileTimeout)
	defer cancel()
	newFile, err := watcher.Next(waitCtx)
	if err != nil {
		return "", fmt.Errorf("waiting for new component file: %w", err)
	}
	return newFile, nil
}

func (r *Refactorer) ensureReactImport(path, text string) (string, error) {
	text, added, err := EnsureDefaultImport(r.config.Parser, text, parser.GrammarForFile(path),
		r.config.ReactModule, r.config.ReactName)
	if added {
		r.logger.Debug("Added default import", "file", path, "module", r.config.ReactModule)
	}
	return text, err
}

// formatFile formats path in place, running patch on the text first.
func (r *Refactorer) formatFile(ctx context.Context, path string, patch func(path, text string) (string, error)) error {
	text, err := ReadDocument(path, r.logger)
	if err != nil {
		return err
	}
	if patch != nil {
		if text, err = patch(path, text); err != nil {
			return err
		}
	}
	formatted, err := r.config.Formatter.Format(ctx, path, text)
	if err != nil {
		return err
	}
	return WriteDocument(path, formatted)
}
