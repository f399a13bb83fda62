package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/jsxextract/pkg/extract"
	mcpserver "github.com/gnana997/jsxextract/pkg/mcp"
	"github.com/gnana997/jsxextract/pkg/mcplog"
	"github.com/gnana997/jsxextract/pkg/parser"
	"github.com/gnana997/jsxextract/pkg/workspace"
)

var (
	serveCallLog    string
	serveAllowWrite bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing the
extract_jsx and check_selection tools. With --allow-write the
extract_jsx_file tool is added, which edits files on disk.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		path := serveCallLog
		if path == "" {
			path = cfg.CallLog
		}
		callLog, err := mcplog.NewLogger(path)
		if err != nil {
			return err
		}
		if callLog != nil {
			defer callLog.Close()
		}

		pm := parser.NewParserManager(logger)
		defer pm.Close()

		var refactorer *workspace.Refactorer
		if serveAllowWrite {
			if refactorer, err = cfg.refactorer(pm, logger); err != nil {
				return err
			}
		}

		srv := mcpserver.NewServer(extract.NewExtractor(pm, logger), refactorer, callLog, cfg.serverDefaults(), logger)
		return srv.ServeStdio()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveCallLog, "call-log", "", "append a JSONL line per tool call to this file (default from config)")
	serveCmd.Flags().BoolVar(&serveAllowWrite, "allow-write", false, "expose the extract_jsx_file tool")
	rootCmd.AddCommand(serveCmd)
}
