package mcp

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/jsxextract/pkg/extract"
	"github.com/gnana997/jsxextract/pkg/parser"
)

// selectionArgs are the arguments shared by the extraction tools.
type selectionArgs struct {
	Start    *int   `json:"start"`
	End      *int   `json:"end"`
	Range    string `json:"range"`
	Name     string `json:"name"`
	Class    *bool  `json:"class"`
	Source   string `json:"source"`
	Language string `json:"language"`
	Path     string `json:"path"`
	ToFile   bool   `json:"to_file"`
}

type checkArgs struct {
	Text string `json:"text"`
	Path string `json:"path"`
}

// bindArguments decodes tool arguments into target. Input is weakly typed
// because clients often send numbers and booleans as strings.
func bindArguments(req mcp.CallToolRequest, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return fmt.Errorf("failed to create argument decoder: %w", err)
	}
	return decoder.Decode(req.GetArguments())
}

// options returns the extraction options for grammar, falling back to the
// server defaults when the call does not choose a component style.
func (a selectionArgs) options(grammar parser.Grammar, defaults Defaults) extract.Options {
	class := defaults.Class
	if a.Class != nil {
		class = *a.Class
	}
	return extract.Options{
		Grammar:       grammar,
		Class:         class,
		BaseComponent: defaults.BaseComponent,
	}
}

// offsets resolves the selection against text: an explicit range wins over
// start/end.
func (a selectionArgs) offsets(text string) (int, int, error) {
	if a.Range != "" {
		return extract.ParseRange(text, a.Range)
	}
	if a.Start == nil || a.End == nil {
		return 0, 0, fmt.Errorf("either range or both start and end are required")
	}
	return *a.Start, *a.End, nil
}
