package mcp

import "github.com/mark3labs/mcp-go/mcp"

func resolveModuleTool() mcp.Tool {
	return mcp.NewTool("resolve_module",
		mcp.WithDescription("Resolve a Node.js module specifier to its file path using Node/TypeScript resolution semantics"),
		mcp.WithString("specifier", mcp.Required(),
			mcp.Description("Module specifier to resolve, e.g. \"react\" or \"./utils\"")),
		mcp.WithString("importer", mcp.Required(),
			mcp.Description("Path of the file containing the import")),
		mcp.WithString("project_root",
			mcp.Description("Optional ceiling for the upward node_modules search")),
		mcp.WithArray("conditions",
			mcp.Description("Export conditions in priority order (default: import, default)")),
		mcp.WithArray("extensions",
			mcp.Description("File extensions to probe in order (default: .ts, .tsx, .js, .mjs, .cjs)")),
		mcp.WithBoolean("prefer_cjs",
			mcp.Description("Prepend the \"require\" condition")),
	)
}

func discoverTypingsTool() mcp.Tool {
	return mcp.NewTool("discover_typings",
		mcp.WithDescription("Locate TypeScript declaration files for an installed package"),
		mcp.WithString("package_name", mcp.Required(),
			mcp.Description("Package to find typings for")),
		mcp.WithString("project_root", mcp.Required(),
			mcp.Description("Project root containing node_modules")),
	)
}

func analyzeModuleTool() mcp.Tool {
	return mcp.NewTool("analyze_module",
		mcp.WithDescription("Parse a JS/TS source file and return its import/export summary"),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("File to analyze")),
	)
}

func batchDiscoverTypingsTool() mcp.Tool {
	return mcp.NewTool("batch_discover_typings",
		mcp.WithDescription("Discover typings for many packages against one project root"),
		mcp.WithArray("package_names", mcp.Required(),
			mcp.Description("Packages to find typings for")),
		mcp.WithString("project_root", mcp.Required(),
			mcp.Description("Project root containing node_modules")),
	)
}

func countTypeFilesTool() mcp.Tool {
	return mcp.NewTool("count_type_files",
		mcp.WithDescription("Count the declaration files that would be loaded for the given packages"),
		mcp.WithArray("package_names", mcp.Required(),
			mcp.Description("Packages to count typings for")),
		mcp.WithString("project_root", mcp.Required(),
			mcp.Description("Project root containing node_modules")),
	)
}

func readFilesTool() mcp.Tool {
	return mcp.NewTool("read_files",
		mcp.WithDescription("Read many files in one call; unreadable files are skipped"),
		mcp.WithArray("paths",
			mcp.Description("Explicit file paths to read")),
		mcp.WithString("root",
			mcp.Description("Root directory for glob-based selection")),
		mcp.WithArray("include",
			mcp.Description("Doublestar patterns selecting files under root")),
		mcp.WithArray("exclude",
			mcp.Description("Doublestar patterns excluding files under root")),
	)
}
