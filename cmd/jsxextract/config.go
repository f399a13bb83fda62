package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/jsxextract/pkg/extract"
	mcpserver "github.com/gnana997/jsxextract/pkg/mcp"
	"github.com/gnana997/jsxextract/pkg/parser"
	"github.com/gnana997/jsxextract/pkg/workspace"
)

const defaultConfigPath = ".jsxextract/config.yaml"

const (
	styleFunction = "function"
	styleClass    = "class"
)

// ProjectConfig holds the contents of .jsxextract/config.yaml.
type ProjectConfig struct {
	Version        int          `yaml:"version"`
	ComponentStyle string       `yaml:"component_style"`
	BaseComponent  string       `yaml:"base_component"`
	ReactImport    ImportConfig `yaml:"react_import"`
	MoveCommand    string       `yaml:"move_command"`
	FormatCommand  string       `yaml:"format_command"`
	FileExtension  string       `yaml:"file_extension"`
	CallLog        string       `yaml:"call_log"`
	Log            LogConfig    `yaml:"log"`
}

// ImportConfig names the default import added to new component files.
type ImportConfig struct {
	Module string `yaml:"module"`
	Name   string `yaml:"name"`
}

// LogConfig selects the stderr log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version:        1,
		ComponentStyle: styleFunction,
		BaseComponent:  extract.DefaultBaseComponent,
		ReactImport:    ImportConfig{Module: "react", Name: "React"},
	}
}

// loadProjectConfig reads the config file at path over the defaults. A
// missing file is not an error.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	cfg := defaultProjectConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	switch cfg.ComponentStyle {
	case "":
		cfg.ComponentStyle = styleFunction
	case styleFunction, styleClass:
	default:
		return nil, fmt.Errorf("invalid config %s: component_style must be %q or %q, got %q",
			path, styleFunction, styleClass, cfg.ComponentStyle)
	}
	return cfg, nil
}

// formatter returns the configured document formatter.
// serverDefaults carries the component style settings to the MCP tools.
func (c *ProjectConfig) serverDefaults() mcpserver.Defaults {
	return mcpserver.Defaults{
		Class:         c.ComponentStyle == styleClass,
		BaseComponent: c.BaseComponent,
	}
}

func (c *ProjectConfig) formatter() (workspace.Formatter, error) {
	if c.FormatCommand == "" {
		return workspace.NopFormatter{}, nil
	}
	return workspace.NewCommandFormatter(c.FormatCommand)
}

// mover returns the configured move-to-new-file implementation.
func (c *ProjectConfig) mover(pm *parser.ParserManager, logger *slog.Logger) (workspace.Mover, error) {
	if c.MoveCommand != "" {
		return workspace.NewCommandMover(c.MoveCommand, logger)
	}
	return workspace.NewFileMover(pm, c.FileExtension, logger), nil
}

// refactorer wires a Refactorer from the config.
func (c *ProjectConfig) refactorer(pm *parser.ParserManager, logger *slog.Logger) (*workspace.Refactorer, error) {
	formatter, err := c.formatter()
	if err != nil {
		return nil, err
	}
	mover, err := c.mover(pm, logger)
	if err != nil {
		return nil, err
	}
	return workspace.NewRefactorer(workspace.RefactorConfig{
		Parser:      pm,
		Formatter:   formatter,
		Mover:       mover,
		ReactModule: c.ReactImport.Module,
		ReactName:   c.ReactImport.Name,
		Logger:      logger,
	}), nil
}
