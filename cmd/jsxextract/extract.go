package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gnana997/jsxextract/pkg/extract"
	"github.com/gnana997/jsxextract/pkg/parser"
	"github.com/gnana997/jsxextract/pkg/workspace"
)

// extractOptions are the extract command's flags.
type extractOptions struct {
	start     int
	end       int
	rangeSpec string
	name      string
	class     bool
	base      string
	language  string
	write     bool
	toFile    bool
}

var extractOpts extractOptions

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a JSX selection into a new component",
	Long: `Extract the JSX element selected in <file> into a new component.

The selection is given as byte offsets (--start/--end) or as an editor range
(--range L:C-L:C, 0-based). Without --write the edits are printed as JSON and
the file is left alone. With --write the file is updated in place; add
--to-file to move the component into a file of its own.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		return runExtract(cmd.Context(), cmd.OutOrStdout(), cfg, logger, args[0], extractOpts)
	},
}

func init() {
	f := extractCmd.Flags()
	f.IntVar(&extractOpts.start, "start", -1, "byte offset where the selection starts")
	f.IntVar(&extractOpts.end, "end", -1, "byte offset where the selection ends (exclusive)")
	f.StringVar(&extractOpts.rangeSpec, "range", "", "selection as L:C-L:C (0-based lines and characters)")
	f.StringVarP(&extractOpts.name, "name", "n", "", "name of the new component")
	f.BoolVar(&extractOpts.class, "class", false, "generate a class component (default from config)")
	f.StringVar(&extractOpts.base, "base", "", "superclass for class components (default from config)")
	f.StringVar(&extractOpts.language, "language", "", "grammar: javascript, typescript or tsx (default from the file extension)")
	f.BoolVarP(&extractOpts.write, "write", "w", false, "write the result to the file")
	f.BoolVar(&extractOpts.toFile, "to-file", false, "move the new component into its own file (implies --write)")
	rootCmd.AddCommand(extractCmd)
}

// extractOutput is printed by a dry run.
type extractOutput struct {
	*extract.Result
	Document string `json:"document"`
}

func runExtract(ctx context.Context, out io.Writer, cfg *ProjectConfig, logger *slog.Logger, path string, opts extractOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !workspace.IsSupportedDocument(path) {
		return fmt.Errorf("unsupported document %q: expected a .js, .jsx, .ts or .tsx file", path)
	}

	name := extract.NormalizeComponentName(opts.name)
	if name == "" {
		return extract.ErrCancelled
	}

	grammar := parser.GrammarForFile(path)
	if opts.language != "" {
		g, err := parser.ParseGrammar(opts.language)
		if err != nil {
			return err
		}
		grammar = g
	}

	source, err := workspace.ReadDocument(path, logger)
	if err != nil {
		return err
	}
	start, end, err := selectionOffsets(source, opts)
	if err != nil {
		return err
	}

	options := extract.Options{
		Grammar:       grammar,
		Class:         opts.class || cfg.ComponentStyle == styleClass,
		BaseComponent: cfg.BaseComponent,
	}
	if opts.base != "" {
		options.BaseComponent = opts.base
	}

	pm := parser.NewParserManager(logger)
	defer pm.Close()

	if !opts.write && !opts.toFile {
		result, err := extract.NewExtractor(pm, logger).Extract(source, start, end, name, options)
		if err != nil {
			return err
		}
		document, _, err := extract.ApplyEdits(source, start, end, result)
		if err != nil {
			return err
		}
		return writeJSON(out, extractOutput{Result: result, Document: document})
	}

	refactorer, err := cfg.refactorer(pm, logger)
	if err != nil {
		return err
	}
	outcome, err := refactorer.Refactor(ctx, workspace.Request{
		Path:    path,
		Start:   start,
		End:     end,
		Name:    name,
		Options: options,
		ToFile:  opts.toFile,
	})
	if err != nil {
		return err
	}
	return writeJSON(out, outcome)
}

// selectionOffsets resolves --range or --start/--end against source.
func selectionOffsets(source string, opts extractOptions) (int, int, error) {
	if opts.rangeSpec != "" {
		return extract.ParseRange(source, opts.rangeSpec)
	}
	if opts.start < 0 || opts.end < 0 {
		return 0, 0, fmt.Errorf("a selection is required: use --range or --start and --end")
	}
	return opts.start, opts.end, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
