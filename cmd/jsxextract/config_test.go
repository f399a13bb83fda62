package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpserver "github.com/gnana997/jsxextract/pkg/mcp"
	"github.com/gnana997/jsxextract/pkg/workspace"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".jsxextract", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProjectConfig_Missing(t *testing.T) {
	cfg, err := loadProjectConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultProjectConfig(), cfg)
}

func TestLoadProjectConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `version: 1
component_style: class
base_component: PureComponent
react_import:
  module: preact/compat
  name: React
format_command: prettier --stdin-filepath {file}
file_extension: .tsx
call_log: .jsxextract/calls.jsonl
log:
  level: debug
  format: json
`)

	cfg, err := loadProjectConfig(path)
	require.NoError(t, err)
	assert.Equal(t, styleClass, cfg.ComponentStyle)
	assert.Equal(t, "PureComponent", cfg.BaseComponent)
	assert.Equal(t, ImportConfig{Module: "preact/compat", Name: "React"}, cfg.ReactImport)
	assert.Equal(t, ".tsx", cfg.FileExtension)
	assert.Equal(t, ".jsxextract/calls.jsonl", cfg.CallLog)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, mcpserver.Defaults{Class: true, BaseComponent: "PureComponent"}, cfg.serverDefaults())

	formatter, err := cfg.formatter()
	require.NoError(t, err)
	assert.IsType(t, &workspace.CommandFormatter{}, formatter)
}

func TestLoadProjectConfig_KeepsDefaults(t *testing.T) {
	cfg, err := loadProjectConfig(writeConfig(t, "move_command: mover {file} {start} {end} {name}\n"))
	require.NoError(t, err)
	assert.Equal(t, styleFunction, cfg.ComponentStyle)
	assert.Equal(t, "React.Component", cfg.BaseComponent)
	assert.Equal(t, "react", cfg.ReactImport.Module)
	assert.Equal(t, mcpserver.Defaults{BaseComponent: "React.Component"}, cfg.serverDefaults())

	formatter, err := cfg.formatter()
	require.NoError(t, err)
	assert.Equal(t, workspace.NopFormatter{}, formatter)

	mover, err := cfg.mover(nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &workspace.CommandMover{}, mover)
}

func TestLoadProjectConfig_Invalid(t *testing.T) {
	_, err := loadProjectConfig(writeConfig(t, "component_style: hooks\n"))
	assert.ErrorContains(t, err, "component_style")

	_, err = loadProjectConfig(writeConfig(t, "version: [\n"))
	assert.ErrorContains(t, err, "invalid config")
}
