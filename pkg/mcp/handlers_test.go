package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsxextract/pkg/extract"
	"github.com/gnana997/jsxextract/pkg/mcplog"
	"github.com/gnana997/jsxextract/pkg/parser"
	"github.com/gnana997/jsxextract/pkg/workspace"
)

// --- helpers ---

func testServer(t *testing.T) *Server {
	t.Helper()
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })

	r := workspace.NewRefactorer(workspace.RefactorConfig{
		Parser: pm,
		Mover:  workspace.NewFileMover(pm, "", nil),
	})
	return NewServer(extract.NewExtractor(pm, nil), r, nil, Defaults{}, nil)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case toolExtractJSX:
		handler = s.handleExtractJSX
	case toolExtractJSXFile:
		handler = s.handleExtractJSXFile
	case toolCheckSelection:
		handler = s.handleCheckSelection
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

const counterSource = `class App extends React.Component {
    render() {
        return <div>{this.state.count}</div>;
    }
}
`

func counterSelection() (int, int) {
	start := strings.Index(counterSource, "<div>")
	return start, start + len("<div>{this.state.count}</div>")
}

// --- extract_jsx ---

func TestHandleExtractJSX(t *testing.T) {
	s := testServer(t)
	start, end := counterSelection()

	result := callTool(t, s, makeRequest(toolExtractJSX, map[string]any{
		"source": counterSource,
		"start":  float64(start),
		"end":    float64(end),
		"name":   "counter",
	}))
	assert.False(t, result.IsError)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	assert.Equal(t, "<Counter count={this.state.count}/>", resp["replace_code"])
	assert.Contains(t, resp["component_code"], "const Counter = (props) =>")
	assert.Equal(t, float64(0), resp["insert_at"])
	assert.Contains(t, resp["document"], "return <Counter count={this.state.count}/>;")

	props, ok := resp["props"].([]any)
	require.True(t, ok)
	require.Len(t, props, 1)
	assert.Equal(t, "count", props[0].(map[string]any)["name"])
}

func TestHandleExtractJSX_RangeAndClass(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, makeRequest(toolExtractJSX, map[string]any{
		"source": counterSource,
		"range":  "2:15-2:44",
		"name":   "Counter",
		"class":  "true",
	}))
	assert.False(t, result.IsError, resultJSON(t, result))

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	assert.Contains(t, resp["component_code"], "class Counter extends React.Component")
	assert.Contains(t, resp["component_code"], "{this.props.count}")
}

func TestHandleExtractJSX_Errors(t *testing.T) {
	s := testServer(t)
	start, end := counterSelection()
	brace := strings.Index(counterSource, "{this")

	testCases := []struct {
		name    string
		args    map[string]any
		wantMsg string
	}{
		{
			name:    "missing source",
			args:    map[string]any{"start": start, "end": end, "name": "X"},
			wantMsg: "source parameter is required",
		},
		{
			name:    "missing name",
			args:    map[string]any{"source": counterSource, "start": start, "end": end},
			wantMsg: "name parameter is required",
		},
		{
			name:    "missing offsets",
			args:    map[string]any{"source": counterSource, "name": "X"},
			wantMsg: "either range or both start and end are required",
		},
		{
			name:    "unknown language",
			args:    map[string]any{"source": counterSource, "start": start, "end": end, "name": "X", "language": "python"},
			wantMsg: `unsupported language "python"`,
		},
		{
			name: "top level markup",
			args: map[string]any{
				"source": "render(<App />);",
				"start":  7, "end": 14, "name": "X",
			},
			wantMsg: "Invalid component",
		},
		{
			name:    "not markup",
			args:    map[string]any{"source": counterSource, "start": brace, "end": brace + 5, "name": "X"},
			wantMsg: "Invalid JSX selected",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest(toolExtractJSX, tc.args))
			assert.True(t, result.IsError)
			assert.Equal(t, tc.wantMsg, resultJSON(t, result))
		})
	}
}

// --- extract_jsx_file ---

func TestHandleExtractJSXFile(t *testing.T) {
	s := testServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "App.jsx")
	require.NoError(t, os.WriteFile(path, []byte(counterSource), 0o644))

	result := callTool(t, s, makeRequest(toolExtractJSXFile, map[string]any{
		"path":    path,
		"range":   "2:15-2:44",
		"name":    "Counter",
		"to_file": true,
	}))
	assert.False(t, result.IsError, resultJSON(t, result))

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	assert.Equal(t, filepath.Join(dir, "Counter.jsx"), resp["new_file"])

	created, err := os.ReadFile(filepath.Join(dir, "Counter.jsx"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(created), `import React from "react";`))
	assert.Contains(t, string(created), "export default Counter;")

	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `import Counter from "./Counter";`)
	assert.Contains(t, string(doc), "<Counter count={this.state.count}/>")
}

func TestHandleExtractJSXFile_Unsupported(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest(toolExtractJSXFile, map[string]any{
		"path": "styles.css", "start": 0, "end": 1, "name": "X",
	}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "unsupported document")
}

// --- check_selection ---

func TestHandleCheckSelection(t *testing.T) {
	s := testServer(t)

	testCases := []struct {
		args    map[string]any
		offered bool
	}{
		{map[string]any{"text": "<div>{count}</div>"}, true},
		{map[string]any{"text": "<Foo />", "path": "src/App.tsx"}, true},
		{map[string]any{"text": "<Foo />", "path": "README.md"}, false},
		{map[string]any{"text": "Hello"}, false},
		{nil, false},
	}

	for _, tc := range testCases {
		result := callTool(t, s, makeRequest(toolCheckSelection, tc.args))
		assert.False(t, result.IsError)

		var resp checkResponse
		require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
		assert.Equal(t, tc.offered, resp.Offered, "%v", tc.args)
		if !tc.offered {
			assert.NotEmpty(t, resp.Reason)
		}
	}
}

// --- middleware ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	callLog, err := mcplog.NewLogger(path)
	require.NoError(t, err)

	pm := parser.NewParserManager(nil)
	defer pm.Close()
	s := NewServer(extract.NewExtractor(pm, nil), nil, callLog, Defaults{}, nil)

	handler := s.loggingMiddleware()(s.handleExtractJSX)
	_, err = handler(context.Background(), makeRequest(toolExtractJSX, map[string]any{
		"source": "render(<App />);", "start": 7, "end": 14, "name": "Root",
	}))
	require.NoError(t, err)
	require.NoError(t, callLog.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var entry mcplog.LogEntry
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))

	assert.Equal(t, toolExtractJSX, entry.Tool)
	assert.Equal(t, float64(len("render(<App />);")), entry.Params["source_len"])
	assert.NotContains(t, entry.Params, "source")
	require.NotNil(t, entry.Error)
	assert.Equal(t, "Invalid component", *entry.Error)
}

// --- response cache ---

func TestHandleExtractJSX_Cached(t *testing.T) {
	s := testServer(t)
	start, end := counterSelection()
	args := map[string]any{"source": counterSource, "start": start, "end": end, "name": "Counter"}

	first := callTool(t, s, makeRequest(toolExtractJSX, args))
	second := callTool(t, s, makeRequest(toolExtractJSX, args))
	assert.Equal(t, resultJSON(t, first), resultJSON(t, second))

	args["class"] = true
	third := callTool(t, s, makeRequest(toolExtractJSX, args))
	assert.NotEqual(t, resultJSON(t, first), resultJSON(t, third))

	stats := s.cache.stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestCacheKey(t *testing.T) {
	js := parser.GrammarFor(parser.LanguageJavaScript, false)
	tsx := parser.GrammarFor(parser.LanguageTypeScript, true)

	plain := extract.Options{Grammar: js}
	base := cacheKey("src", 1, 2, "A", plain)
	assert.Equal(t, base, cacheKey("src", 1, 2, "A", plain))
	assert.NotEqual(t, base, cacheKey("src", 1, 3, "A", plain))
	assert.NotEqual(t, base, cacheKey("src", 1, 2, "B", plain))
	assert.NotEqual(t, base, cacheKey("src", 1, 2, "A", extract.Options{Grammar: js, Class: true}))
	assert.NotEqual(t, base, cacheKey("src", 1, 2, "A", extract.Options{Grammar: js, BaseComponent: "Component"}))
	assert.NotEqual(t, base, cacheKey("src", 1, 2, "A", extract.Options{Grammar: tsx}))
	assert.NotEqual(t, base, cacheKey("src2", 1, 2, "A", plain))
}

// --- project defaults ---

func TestHandleExtractJSX_Defaults(t *testing.T) {
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })
	s := NewServer(extract.NewExtractor(pm, nil), nil, nil,
		Defaults{Class: true, BaseComponent: "PureComponent"}, nil)
	start, end := counterSelection()

	testCases := []struct {
		name  string
		class any
		want  string
	}{
		{"style from defaults", nil, "class Counter extends PureComponent"},
		{"call overrides defaults", false, "const Counter = (props) =>"},
		{"string flag overrides defaults", "false", "const Counter = (props) =>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := map[string]any{"source": counterSource, "start": start, "end": end, "name": "Counter"}
			if tc.class != nil {
				args["class"] = tc.class
			}
			result := callTool(t, s, makeRequest(toolExtractJSX, args))
			require.False(t, result.IsError, resultJSON(t, result))

			var resp map[string]any
			require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
			assert.Contains(t, resp["component_code"], tc.want)
		})
	}
}
