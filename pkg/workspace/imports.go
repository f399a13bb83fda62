package workspace

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/jsxextract/pkg/parser"
)

// importDecl is one top-level import statement.
type importDecl struct {
	Source      string // module specifier without quotes
	DefaultName string // "" when there is no default binding
	Start       int
	End         int
}

// moduleImports lists the top-level import statements of source. Syntax
// errors elsewhere in the module are tolerated: a freshly moved file is
// imported from before it is formatted.
func moduleImports(pm *parser.ParserManager, source string, grammar parser.Grammar) ([]importDecl, error) {
	src := []byte(source)
	tree, err := pm.Parse(src, grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to parse imports: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var imports []importDecl
	for i := uint(0); i < uint(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Kind() != "import_statement" {
			continue
		}

		decl := importDecl{Start: int(child.StartByte()), End: int(child.EndByte())}
		for j := uint(0); j < uint(child.ChildCount()); j++ {
			part := child.Child(j)
			switch part.Kind() {
			case "string":
				decl.Source = stringContent(part, src)
			case "import_clause":
				decl.DefaultName = defaultBinding(part, src)
			}
		}
		if decl.Source != "" {
			imports = append(imports, decl)
		}
	}
	return imports, nil
}

func defaultBinding(clause *ts.Node, src []byte) string {
	for i := uint(0); i < uint(clause.ChildCount()); i++ {
		if child := clause.Child(i); child.Kind() == "identifier" {
			return child.Utf8Text(src)
		}
	}
	return ""
}

// stringContent returns a string literal's content without its quotes.
func stringContent(node *ts.Node, src []byte) string {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if child := node.Child(i); child.Kind() == "string_fragment" {
			return child.Utf8Text(src)
		}
	}
	text := node.Utf8Text(src)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// EnsureDefaultImport prepends `import name from "module";` unless source
// already has an import declaration from module. It reports whether source
// changed.
func EnsureDefaultImport(pm *parser.ParserManager, source string, grammar parser.Grammar, module, name string) (string, bool, error) {
	imports, err := moduleImports(pm, source, grammar)
	if err != nil {
		return source, false, err
	}
	for _, imp := range imports {
		if imp.Source == module {
			return source, false, nil
		}
	}
	return fmt.Sprintf("import %s from %q;\n", name, module) + source, true, nil
}

// AddDefaultImport inserts `import name from "module";` after the last
// top-level import of source, or at the top when there is none. A default
// import of the same module is left alone.
func AddDefaultImport(pm *parser.ParserManager, source string, grammar parser.Grammar, module, name string) (string, error) {
	imports, err := moduleImports(pm, source, grammar)
	if err != nil {
		return source, err
	}

	stmt := fmt.Sprintf("import %s from %q;", name, module)
	at := 0
	for _, imp := range imports {
		if imp.Source == module && imp.DefaultName == name {
			return source, nil
		}
		at = imp.End
	}
	if at == 0 {
		return stmt + "\n" + source, nil
	}
	return source[:at] + "\n" + stmt + source[at:], nil
}
