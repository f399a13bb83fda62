package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/jsxextract/pkg/extract"
)

const appSource = `import React from "react";

class App extends React.Component {
    render() {
        return <div>{this.state.count}</div>;
    }
}
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func writeApp(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "App.jsx")
	require.NoError(t, os.WriteFile(path, []byte(appSource), 0o644))
	return path
}

func TestRunExtract_DryRun(t *testing.T) {
	path := writeApp(t)

	var out bytes.Buffer
	err := runExtract(context.Background(), &out, defaultProjectConfig(), testLogger(), path, extractOptions{
		rangeSpec: "4:15-4:44",
		name:      "counter view",
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "<CounterView count={this.state.count}/>", got["replace_code"])
	assert.Contains(t, got["document"], "const CounterView = (props) => (")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, appSource, string(data), "a dry run must not touch the file")
}

func TestRunExtract_ClassFromConfig(t *testing.T) {
	path := writeApp(t)
	cfg := defaultProjectConfig()
	cfg.ComponentStyle = styleClass

	var out bytes.Buffer
	err := runExtract(context.Background(), &out, cfg, testLogger(), path, extractOptions{
		rangeSpec: "4:15-4:44",
		name:      "Counter",
		base:      "Component",
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Contains(t, got["component_code"], "class Counter extends Component {")
}

func TestRunExtract_Write(t *testing.T) {
	path := writeApp(t)

	var out bytes.Buffer
	err := runExtract(context.Background(), &out, defaultProjectConfig(), testLogger(), path, extractOptions{
		start: 94,
		end:   123,
		name:  "Counter",
		write: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "const Counter = (props) => (\n    <div>{props.count}</div>\n);\n\nclass App")
	assert.Contains(t, string(data), "return <Counter count={this.state.count}/>;")
}

func TestRunExtract_ToFile(t *testing.T) {
	path := writeApp(t)

	var out bytes.Buffer
	err := runExtract(context.Background(), &out, defaultProjectConfig(), testLogger(), path, extractOptions{
		rangeSpec: "4:15-4:44",
		name:      "Counter",
		toFile:    true,
	})
	require.NoError(t, err)

	created := filepath.Join(filepath.Dir(path), "Counter.jsx")
	data, err := os.ReadFile(created)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export default Counter;")

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, created, got["new_file"])
}

func TestRunExtract_Errors(t *testing.T) {
	path := writeApp(t)
	cfg := defaultProjectConfig()

	testCases := []struct {
		name    string
		path    string
		opts    extractOptions
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty name cancels",
			path:    path,
			opts:    extractOptions{rangeSpec: "4:15-4:44"},
			wantErr: extract.ErrCancelled,
		},
		{
			name:    "unsupported file",
			path:    filepath.Join(filepath.Dir(path), "styles.css"),
			opts:    extractOptions{rangeSpec: "0:0-0:1", name: "X"},
			wantMsg: "unsupported document",
		},
		{
			name:    "missing selection",
			path:    path,
			opts:    extractOptions{start: -1, end: -1, name: "X"},
			wantMsg: "a selection is required",
		},
		{
			name:    "bad language",
			path:    path,
			opts:    extractOptions{rangeSpec: "4:15-4:44", name: "X", language: "cobol"},
			wantMsg: "unsupported language",
		},
		{
			name:    "not markup",
			path:    path,
			opts:    extractOptions{rangeSpec: "4:20-4:26", name: "X"},
			wantErr: extract.ErrInvalidSelection,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runExtract(context.Background(), &out, cfg, testLogger(), tc.path, tc.opts)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.wantMsg != "" {
				assert.ErrorContains(t, err, tc.wantMsg)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestIsOffered(t *testing.T) {
	assert.True(t, isOffered("", "<div>{count}</div>"))
	assert.True(t, isOffered("src/App.tsx", "<Foo />"))
	assert.False(t, isOffered("notes.md", "<Foo />"))
	assert.False(t, isOffered("src/App.jsx", "Hello"))
}
