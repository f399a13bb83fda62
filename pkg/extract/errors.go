package extract

import (
	"errors"
	"fmt"

	"github.com/gnana997/jsxextract/pkg/syntax"
)

var (
	// ErrInvalidSelection means the selection is empty, is not markup, or no
	// JSX element lies fully inside it.
	ErrInvalidSelection = errors.New("invalid JSX selected")

	// ErrInvalidComponent means no function, class or variable declaration
	// encloses the selected element.
	ErrInvalidComponent = errors.New("invalid component")

	// ErrCancelled means no component name was supplied. Callers treat it as
	// a silent no-op.
	ErrCancelled = errors.New("extraction cancelled")
)

// UserMessage reduces err to the single line shown to a user.
func UserMessage(err error) string {
	var parseErr *syntax.ParseError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSelection):
		return "Invalid JSX selected"
	case errors.Is(err, ErrInvalidComponent):
		return "Invalid component"
	case errors.Is(err, ErrCancelled):
		return ""
	case errors.As(err, &parseErr):
		return fmt.Sprintf("Parse error at %d:%d", parseErr.Line, parseErr.Column)
	default:
		return err.Error()
	}
}
