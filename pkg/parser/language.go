package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language represents a supported source language for JSX extraction.
type Language int

const (
	// LanguageJavaScript represents JavaScript with JSX (.js, .jsx files)
	LanguageJavaScript Language = iota
	// LanguageTypeScript represents TypeScript (.ts, .tsx files)
	LanguageTypeScript
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// Grammar identifies one tree-sitter grammar: a language plus the TSX switch.
// TSX is only meaningful for TypeScript and is normalised away otherwise.
type Grammar struct {
	Language Language
	TSX      bool
}

// GrammarFor returns the normalised grammar for a language.
func GrammarFor(lang Language, isTSX bool) Grammar {
	return Grammar{Language: lang, TSX: isTSX && lang == LanguageTypeScript}
}

// String returns "javascript", "typescript" or "tsx".
func (g Grammar) String() string {
	if g.TSX {
		return "tsx"
	}
	return g.Language.String()
}

// DetectLanguage detects the language from a file path.
// Returns LanguageUnknown if the file extension is not recognized.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// IsTSXFile checks if a file path represents a TSX file.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}

// GrammarForFile picks the grammar to parse a document with. Plain .ts files
// are parsed with the TSX grammar too, since extraction only makes sense when
// JSX is allowed.
func GrammarForFile(filePath string) Grammar {
	lang := DetectLanguage(filePath)
	return GrammarFor(lang, lang == LanguageTypeScript)
}

// ParseLanguageString converts a language string to a Language type.
// Returns LanguageUnknown if the string is not recognized.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(lang) {
	case "typescript", "ts", "tsx":
		return LanguageTypeScript
	case "javascript", "js", "jsx":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// ParseGrammar resolves a grammar name given on the command line or in tool
// arguments. An empty name selects JavaScript; TypeScript names select the
// TSX grammar, as GrammarForFile does.
func ParseGrammar(name string) (Grammar, error) {
	if name == "" {
		return GrammarFor(LanguageJavaScript, false), nil
	}
	lang := ParseLanguageString(name)
	if lang == LanguageUnknown {
		return Grammar{}, fmt.Errorf("unsupported language %q", name)
	}
	return GrammarFor(lang, lang == LanguageTypeScript), nil
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{
		LanguageJavaScript,
		LanguageTypeScript,
	}
}
