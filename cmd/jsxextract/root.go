package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/jsxextract/pkg/extract"
	"github.com/gnana997/jsxextract/pkg/util"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsxextract",
	Short: "Extract JSX into new React components",
	Long: `jsxextract moves a selected JSX element into a new React component.

Values the selection reads from its surroundings (state, props, locals and
bound methods) are forwarded as props, and the selection is replaced with an
instance of the new component. The component is inserted above the
enclosing declaration or moved into a file of its own.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors are reduced to the message a user
// should see; a cancelled extraction exits quietly.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, extract.ErrCancelled) {
			return
		}
		if errors.Is(err, errNotOffered) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "jsxextract:", extract.UserMessage(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "project config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config, else info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (default from config, else text)")
}

// setup loads the project config and builds the stderr logger. Flags win
// over the config file.
func setup() (*ProjectConfig, *slog.Logger, error) {
	cfg, err := loadProjectConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}
	logger := util.NewLogger(util.ParseLoggerConfig(level, format))
	util.SetDefault(logger)
	return cfg, logger, nil
}
