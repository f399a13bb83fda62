package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/gnana997/jsxextract/pkg/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jsxextract",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jsxextract %s\n", mcpserver.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
