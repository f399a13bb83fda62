package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/jsxextract/pkg/syntax"
	"github.com/gnana997/jsxextract/pkg/workspace"
)

var checkPath string

// errNotOffered makes check exit with status 1 without a message.
var errNotOffered = errors.New("extraction not offered")

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Report whether extraction is offered for a selection",
	Long: `Report whether extraction is offered for the selected text, read from the
argument or from stdin. Prints true or false; with --path the document type
is checked as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read selection: %w", err)
			}
			text = string(data)
		}
		offered := isOffered(checkPath, text)
		fmt.Fprintln(cmd.OutOrStdout(), offered)
		if !offered {
			return errNotOffered
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkPath, "path", "", "document the selection belongs to")
	rootCmd.AddCommand(checkCmd)
}

// isOffered combines the document selector with the markup check.
func isOffered(path, text string) bool {
	if path != "" && !workspace.IsSupportedDocument(path) {
		return false
	}
	return syntax.IsMarkupFragment(text)
}
