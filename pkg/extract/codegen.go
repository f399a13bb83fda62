package extract

import (
	"fmt"
	"strings"
)

// DefaultBaseComponent is the superclass of generated class components.
const DefaultBaseComponent = "React.Component"

// renderFunctionComponent renders name as an arrow function returning body.
// The props parameter is only declared when the body uses it.
func renderFunctionComponent(name, body string) string {
	params := ""
	if propsReferenced(body) {
		params = "props"
	}
	return fmt.Sprintf("const %s = (%s) => (\n    %s\n);\n", name, params, reindent(body, "    "))
}

// renderClassComponent renders name as a class whose render method returns
// body.
func renderClassComponent(name, base, body string) string {
	if base == "" {
		base = DefaultBaseComponent
	}
	var b strings.Builder
	fmt.Fprintf(&b, "class %s extends %s {\n", name, base)
	b.WriteString("    constructor(props) {\n")
	b.WriteString("        super(props);\n")
	b.WriteString("    }\n\n")
	b.WriteString("    render() {\n")
	b.WriteString("        return (\n")
	fmt.Fprintf(&b, "            %s\n", reindent(body, "            "))
	b.WriteString("        );\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

// renderInstance renders the self-closing element that replaces the
// selection, one attribute per prop.
func renderInstance(name string, props []Prop) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)
	for _, p := range props {
		fmt.Fprintf(&b, " %s={%s}", p.Name, p.Value)
	}
	b.WriteString("/>")
	return b.String()
}

// reindent strips the common indentation of every line after the first and
// prefixes those lines with indent. The first line starts mid-line in the
// original source and is left alone.
func reindent(body, indent string) string {
	lines := strings.Split(body, "\n")
	if len(lines) == 1 {
		return body
	}

	common := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		width := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || width < common {
			common = width
		}
	}
	if common < 0 {
		common = 0
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + lines[i][common:]
	}
	return strings.Join(lines, "\n")
}
