package mcplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEntries decodes every line of a JSONL call log.
func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e), "line %d", len(entries)+1)
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestSanitizeParams(t *testing.T) {
	atLimit := strings.Repeat("x", shortStringMax)
	overLimit := strings.Repeat("x", shortStringMax+1)

	testCases := []struct {
		name string
		in   map[string]any
		want map[string]any
	}{
		{
			name: "extract_jsx call keeps selection and drops the source",
			in: map[string]any{
				"source": `class App extends React.Component {}`,
				"start":  float64(40),
				"end":    float64(69),
				"name":   "Counter",
				"class":  true,
			},
			want: map[string]any{
				"source_len": 36,
				"start":      float64(40),
				"end":        float64(69),
				"name":       "Counter",
				"class":      true,
			},
		},
		{
			name: "check_selection text is measured even when tiny",
			in:   map[string]any{"text": "<b/>", "path": "src/App.jsx"},
			want: map[string]any{"text_len": 4, "path": "src/App.jsx"},
		},
		{
			name: "other strings are kept up to the limit",
			in:   map[string]any{"range": atLimit},
			want: map[string]any{"range": atLimit},
		},
		{
			name: "other strings over the limit are measured",
			in:   map[string]any{"path": overLimit},
			want: map[string]any{"path_len": shortStringMax + 1},
		},
		{
			name: "non-string document keys pass through",
			in:   map[string]any{"source": nil},
			want: map[string]any{"source": nil},
		},
		{
			name: "no arguments",
			in:   nil,
			want: map[string]any{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeParams(tc.in))
		})
	}
}

func TestResultText(t *testing.T) {
	testCases := []struct {
		name   string
		result *mcp.CallToolResult
		want   string
	}{
		{"nil result", nil, ""},
		{"tool error", mcp.NewToolResultError("Invalid JSX selected"), "Invalid JSX selected"},
		{"json payload", mcp.NewToolResultText(`{"offered":true}`), `{"offered":true}`},
		{
			name: "first text after other content",
			result: &mcp.CallToolResult{Content: []mcp.Content{
				mcp.NewImageContent("aGk=", "image/png"),
				mcp.NewTextContent("Invalid component"),
			}},
			want: "Invalid component",
		},
		{"no text content", &mcp.CallToolResult{}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResultText(tc.result))
		})
	}
}

func TestResponseBytes(t *testing.T) {
	assert.Zero(t, ResponseBytes(nil))

	short := ResponseBytes(mcp.NewToolResultText(`{"offered":false}`))
	long := ResponseBytes(mcp.NewToolResultText(`{"replace_code":"<Counter count={this.state.count}/>"}`))
	assert.Positive(t, short)
	assert.Greater(t, long, short)
}

func TestLoggerAppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".jsxextract", "calls.jsonl")
	errMsg := "Invalid component"

	first, err := NewLogger(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(LogEntry{
		Tool:   "extract_jsx",
		Params: SanitizeParams(map[string]any{"source": "render(<App />);", "name": "Root"}),
		Error:  &errMsg,
	}))
	require.NoError(t, first.Close())

	second, err := NewLogger(path)
	require.NoError(t, err)
	require.NoError(t, second.Write(LogEntry{Tool: "check_selection", DurationMs: 2}))
	require.NoError(t, second.Close())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)

	assert.Equal(t, "extract_jsx", entries[0].Tool)
	assert.Equal(t, map[string]any{"source_len": float64(16), "name": "Root"}, entries[0].Params)
	require.NotNil(t, entries[0].Error)
	assert.Equal(t, errMsg, *entries[0].Error)

	assert.Equal(t, "check_selection", entries[1].Tool)
	assert.Nil(t, entries[1].Error)
}

func TestLoggerConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	const writers, each = 20, 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				assert.NoError(t, logger.Write(LogEntry{Tool: "extract_jsx", Params: map[string]any{"source_len": j}}))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readEntries(t, path), writers*each)
}

func TestNewLoggerEmptyPathDisablesLogging(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.Nil(t, logger)
}
