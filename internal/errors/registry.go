package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (D001-D019)

	"D001": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No domsync.json was found in the working directory or any of its parents.",
	},
	"D002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "domsync.json could not be decoded. Unknown fields are rejected.",
	},
	"D003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
	},

	// Rendering (D020-D039)

	"D020": {
		Category: CategoryRender,
		Message:  "Render pass failed",
		Detail:   "Building the markup or script for a tree panicked. The pass was abandoned and no output was produced.",
	},
	"D021": {
		Category: CategoryRender,
		Message:  "Invalid tree file",
		Detail:   "The tree could not be read. Trees are JSON or YAML files with tag, attrs, style, events, timer, text and children fields.",
	},
	"D022": {
		Category: CategoryRender,
		Message:  "Empty tree",
		Detail:   "The tree has no root element to render.",
	},

	// Protocol (D040-D059)

	"D040": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "A frame received from the client could not be decoded.",
	},
	"D041": {
		Category: CategoryProtocol,
		Message:  "Unknown command",
		Detail:   "The client sent a command that no handler is registered for.",
	},
	"D042": {
		Category: CategoryProtocol,
		Message:  "Command failed",
		Detail:   "The handler for a client command returned an error.",
	},

	// Snapshots (D060-D079)

	"D060": {
		Category: CategorySnapshot,
		Message:  "Snapshot store unavailable",
		Detail:   "The configured snapshot store could not be opened.",
	},
	"D061": {
		Category: CategorySnapshot,
		Message:  "Snapshot publish failed",
		Detail:   "At least one page could not be written to the snapshot store.",
	},

	// CLI (D080-D099)

	"D080": {
		Category: CategoryCLI,
		Message:  "Unsupported file format",
		Detail:   "Tree files must end in .json, .yaml or .yml.",
	},
	"D081": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The development server stopped with an error.",
	},
}

// Codes returns all registered error codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for an error code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
