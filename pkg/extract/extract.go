// Package extract rewrites a selected JSX element into a new component.
//
// Extract is a pure function of its inputs: it parses the module, locates
// the selection, works out which outer values the selection reads, and
// returns the text edits without touching any document. Applying the edits
// is left to the caller (see ApplyEdits).
package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnana997/jsxextract/pkg/parser"
	"github.com/gnana997/jsxextract/pkg/syntax"
)

// Options controls one extraction.
type Options struct {
	// Grammar used to parse the module. The zero value is JavaScript.
	Grammar parser.Grammar

	// Class produces a class component instead of a function component.
	Class bool

	// BaseComponent is the superclass for class components
	// (default React.Component).
	BaseComponent string
}

// Result holds the edits for one extraction.
type Result struct {
	// ReplaceCode replaces the selected range.
	ReplaceCode string `json:"replace_code"`

	// ComponentCode is the full source of the new component.
	ComponentCode string `json:"component_code"`

	// InsertAt is the byte offset before which ComponentCode is inserted:
	// the enclosing declaration, or its first leading comment.
	InsertAt int `json:"insert_at"`

	// Props lists the forwarded props in attribute order.
	Props []Prop `json:"props"`

	// Wrapped is set when the selection was not one element and was
	// wrapped in a <div> first.
	Wrapped bool `json:"wrapped"`
}

// Extractor runs extractions. It holds no state between calls besides the
// parser pool it borrows parsers from.
type Extractor struct {
	parser *parser.ParserManager
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger falls back to
// slog.Default().
func NewExtractor(pm *parser.ParserManager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{parser: pm, logger: logger}
}

// IsExtractionOffered reports whether a host should offer extraction for
// the raw selected text.
func (e *Extractor) IsExtractionOffered(selected string) bool {
	return syntax.IsMarkupFragment(selected)
}

// Extract moves source[start:end] into a new component called name.
//
// Errors wrap ErrInvalidSelection, ErrInvalidComponent or ErrCancelled, or
// are a *syntax.ParseError.
func (e *Extractor) Extract(source string, start, end int, name string, opts Options) (*Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCancelled
	}
	if start < 0 || end > len(source) || start >= end {
		return nil, fmt.Errorf("%w: range [%d,%d) outside document of %d bytes",
			ErrInvalidSelection, start, end, len(source))
	}

	selection := source[start:end]
	if strings.TrimSpace(selection) == "" {
		return nil, fmt.Errorf("%w: empty selection", ErrInvalidSelection)
	}

	wrapped := false
	if tree, _ := syntax.ParseMarkup(e.parser, selection, opts.Grammar); tree == nil {
		selection = "<div>" + selection + "</div>"
		if tree, _ := syntax.ParseMarkup(e.parser, selection, opts.Grammar); tree == nil {
			return nil, fmt.Errorf("%w: selection is not markup", ErrInvalidSelection)
		}
		source = source[:start] + selection + source[end:]
		end = start + len(selection)
		wrapped = true
	}

	tree, err := syntax.ParseModule(e.parser, []byte(source), opts.Grammar)
	if err != nil {
		return nil, err
	}

	selected := findSelectedNode(tree, start, end)
	if selected == syntax.NoNode {
		return nil, fmt.Errorf("%w: no JSX element inside [%d,%d)", ErrInvalidSelection, start, end)
	}
	component := findEnclosingComponent(tree, selected)
	if component == syntax.NoNode {
		return nil, fmt.Errorf("%w: no declaration encloses the selection", ErrInvalidComponent)
	}

	cands := collectReferences(tree, component, selected, start, end)
	groups := groupContainers(cands)
	key, hasKey := extractKeyAttribute(tree, selected)
	synth := newSynthesizer(tree, groups, opts.Class)
	if hasKey {
		synth.props.set(keyProp, key)
	}
	synth.apply(cands)

	body := tree.Render(selected)
	var componentCode string
	if opts.Class {
		componentCode = renderClassComponent(name, opts.BaseComponent, body)
	} else {
		componentCode = renderFunctionComponent(name, body)
	}
	props := synth.props.list()

	e.logger.Debug("extracted component",
		"name", name,
		"selected_kind", tree.Kind(selected),
		"component_kind", tree.Kind(component),
		"candidates", len(cands),
		"groups", len(groups),
		"props", len(props),
		"wrapped", wrapped)

	return &Result{
		ReplaceCode:   renderInstance(name, props),
		ComponentCode: componentCode,
		InsertAt:      componentStartAt(tree, component),
		Props:         props,
		Wrapped:       wrapped,
	}, nil
}
