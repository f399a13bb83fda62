package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/jsxextract/pkg/extract"
	"github.com/gnana997/jsxextract/pkg/parser"
	"github.com/gnana997/jsxextract/pkg/workspace"
)

// extractResponse is the extract_jsx payload.
type extractResponse struct {
	*extract.Result
	Document string `json:"document"`
}

type checkResponse struct {
	Offered bool   `json:"offered"`
	Reason  string `json:"reason,omitempty"`
}

func (s *Server) handleExtractJSX(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args selectionArgs
	if err := bindArguments(req, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Source == "" {
		return mcp.NewToolResultError("source parameter is required"), nil
	}
	name := extract.NormalizeComponentName(args.Name)
	if name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	grammar, err := parser.ParseGrammar(args.Language)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, end, err := args.offsets(args.Source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := args.options(grammar, s.defaults)
	key := cacheKey(args.Source, start, end, name, opts)
	if resp, ok := s.cache.get(key); ok {
		return marshalToolResponse(resp)
	}

	result, err := s.extractor.Extract(args.Source, start, end, name, opts)
	if err != nil {
		return s.extractionError(err), nil
	}
	document, _, err := extract.ApplyEdits(args.Source, start, end, result)
	if err != nil {
		return s.extractionError(err), nil
	}

	resp := &extractResponse{Result: result, Document: document}
	s.cache.add(key, resp)
	return marshalToolResponse(resp)
}

func (s *Server) handleExtractJSXFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args selectionArgs
	if err := bindArguments(req, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if !workspace.IsSupportedDocument(args.Path) {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported document %q", args.Path)), nil
	}
	name := extract.NormalizeComponentName(args.Name)
	if name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	start, end := 0, 0
	if args.Range != "" {
		text, err := workspace.ReadDocument(args.Path, s.logger)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if start, end, err = args.offsets(text); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else {
		var err error
		if start, end, err = args.offsets(""); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	outcome, err := s.refactorer.Refactor(ctx, workspace.Request{
		Path:  args.Path,
		Start: start,
		End:   end,
		Name:  name,
		Options: args.options(parser.GrammarForFile(args.Path), s.defaults),
		ToFile:  args.ToFile,
	})
	if err != nil {
		return s.extractionError(err), nil
	}
	return marshalToolResponse(outcome)
}

func (s *Server) handleCheckSelection(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args checkArgs
	if err := bindArguments(req, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	resp := checkResponse{Offered: true}
	switch {
	case args.Path != "" && !workspace.IsSupportedDocument(args.Path):
		resp = checkResponse{Reason: "unsupported document type"}
	case !s.extractor.IsExtractionOffered(args.Text):
		resp = checkResponse{Reason: "selection is not a markup fragment"}
	}
	return marshalToolResponse(resp)
}

// extractionError turns an extraction failure into a tool error carrying the
// user-facing message.
func (s *Server) extractionError(err error) *mcp.CallToolResult {
	s.logger.Debug("Extraction failed", "error", err)
	msg := extract.UserMessage(err)
	if errors.Is(err, extract.ErrCancelled) {
		msg = "extraction cancelled"
	}
	return mcp.NewToolResultError(msg)
}

// marshalToolResponse marshals a response to JSON text content.
func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
