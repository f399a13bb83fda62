package mcp

import "github.com/mark3labs/mcp-go/mcp"

const (
	toolExtractJSX     = "extract_jsx"
	toolExtractJSXFile = "extract_jsx_file"
	toolCheckSelection = "check_selection"
)

func selectionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("start",
			mcp.Description("Byte offset where the selection starts")),
		mcp.WithNumber("end",
			mcp.Description("Byte offset where the selection ends (exclusive)")),
		mcp.WithString("range",
			mcp.Description("Selection as 0-based line:character pairs, e.g. '4:15-4:42'. Used instead of start/end")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the new component, e.g. 'UserCard' or 'user card'")),
		mcp.WithBoolean("class",
			mcp.Description("Generate a class component instead of a function component (default from the project config)")),
	}
}

func extractJSXTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Extract a JSX selection from module source into a new React component. Returns the replacement element, the component source, the insertion offset, the forwarded props and the edited source. Nothing is written to disk."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Full source text of the module")),
		mcp.WithString("language",
			mcp.Description("Grammar: javascript (default, includes JSX), typescript or tsx")),
		mcp.WithReadOnlyHintAnnotation(true),
	}
	return mcp.NewTool(toolExtractJSX, append(opts, selectionOptions()...)...)
}

func extractJSXFileTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Extract a JSX selection in a file on disk into a new React component and save the file. With to_file the component is moved into its own file next to the document."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the .js, .jsx, .ts or .tsx document")),
		mcp.WithBoolean("to_file",
			mcp.Description("Move the new component into <Name> file next to the document")),
		mcp.WithDestructiveHintAnnotation(false),
	}
	return mcp.NewTool(toolExtractJSXFile, append(opts, selectionOptions()...)...)
}

func checkSelectionTool() mcp.Tool {
	return mcp.NewTool(toolCheckSelection,
		mcp.WithDescription("Report whether extraction is offered for a selected text, optionally for a given document path"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The raw selected text")),
		mcp.WithString("path",
			mcp.Description("Document path; extraction is only offered for .js, .jsx, .ts and .tsx files")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
