package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://github.com/vango-dev/abbrev/blob/main/docs/errors.md#"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid abbrev.json",
		Detail:   "The abbrev.json configuration file is malformed.",
		DocURL:   docBase + "e120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No abbrev.json was found at the given path.",
		DocURL:   docBase + "e121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid server address",
		Detail:   "The server address must have the form host:port with a port between 0 and 65535.",
		DocURL:   docBase + "e122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid log settings",
		Detail:   "The log level must be debug, info, warn or error, and the format text or json.",
		DocURL:   docBase + "e123",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Configuration file already exists",
		Detail:   "init does not overwrite an existing abbrev.json unless --force is given.",
		DocURL:   docBase + "e124",
	},

	// ============================================
	// Snippet Source Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategorySource,
		Message:  "Snippet source not found",
		Detail:   "The snippets file or object does not exist.",
		DocURL:   docBase + "e140",
	},
	"E141": {
		Category: CategorySource,
		Message:  "Unsupported snippet source",
		Detail:   "Snippet sources are file paths or s3://bucket/key URIs.",
		DocURL:   docBase + "e141",
	},
	"E142": {
		Category: CategorySource,
		Message:  "Malformed snippets file",
		Detail:   "A snippets file is a YAML mapping with a top-level snippets key.",
		DocURL:   docBase + "e142",
	},
	"E143": {
		Category: CategorySource,
		Message:  "Invalid snippet definition",
		Detail:   "A snippet needs a non-empty name and a template.",
		DocURL:   docBase + "e143",
	},
	"E144": {
		Category: CategorySource,
		Message:  "Object storage unavailable",
		Detail:   "The snippet object could not be fetched from S3.",
		DocURL:   docBase + "e144",
	},

	// ============================================
	// Resolve Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryResolve,
		Message:  "Malformed tree document",
		Detail:   "The input is not a valid YAML tree document.",
		DocURL:   docBase + "e200",
	},
	"E201": {
		Category: CategoryResolve,
		Message:  "Snippet template does not parse",
		Detail:   "A snippet's template could not be parsed while expanding it. The node that referenced it was left unchanged.",
		DocURL:   docBase + "e201",
	},
	"E202": {
		Category: CategoryResolve,
		Message:  "Resolution failed",
		Detail:   "A snippet handler returned an error or the resolution was canceled.",
		DocURL:   docBase + "e202",
	},

	// ============================================
	// Server Errors (E220-E239)
	// ============================================

	"E220": {
		Category: CategoryServer,
		Message:  "Unsupported output format",
		Detail:   "The format parameter must be yaml or outline.",
		DocURL:   docBase + "e220",
	},
	"E221": {
		Category: CategoryServer,
		Message:  "Unreadable request body",
		Detail:   "The request body could not be read or exceeds the size limit.",
		DocURL:   docBase + "e221",
	},

	// ============================================
	// CLI Errors (E240-E259)
	// ============================================

	"E240": {
		Category: CategoryCLI,
		Message:  "Input not readable",
		Detail:   "The input file could not be opened or read.",
		DocURL:   docBase + "e240",
	},
}
