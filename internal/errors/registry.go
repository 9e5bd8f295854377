package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (W001-W099)
	// ============================================

	"W001": {
		Category: CategoryConfig,
		Message:  "Invalid property value",
		Detail:   "The value given for this property is outside the set the element or widget accepts.",
		DocURL:   "https://widgetkit.dev/docs/errors/W001",
	},
	"W002": {
		Category: CategoryConfig,
		Message:  "Unsupported property value type",
		Detail:   "Properties written to the DOM must be strings, numbers or booleans. Functions, channels and maps cannot be serialized into attributes.",
		DocURL:   "https://widgetkit.dev/docs/errors/W002",
	},
	"W003": {
		Category: CategoryConfig,
		Message:  "Missing required widget option",
		Detail:   "The widget cannot be created without this option.",
		DocURL:   "https://widgetkit.dev/docs/errors/W003",
	},
	"W004": {
		Category: CategoryConfig,
		Message:  "Unknown widget",
		Detail:   "No widget factory is registered under this name.",
		DocURL:   "https://widgetkit.dev/docs/errors/W004",
	},
	"W005": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "widgetkit.json could not be parsed or contains invalid values.",
		DocURL:   "https://widgetkit.dev/docs/errors/W005",
	},
	"W006": {
		Category: CategoryConfig,
		Message:  "Invalid tree description",
		Detail:   "The JSON tree description could not be decoded into component nodes.",
		DocURL:   "https://widgetkit.dev/docs/errors/W006",
	},

	// ============================================
	// Widget Errors (W100-W199)
	// ============================================

	"W101": {
		Category: CategoryWidget,
		Message:  "Widget instantiation failed",
		Detail:   "The wrapped library failed while creating its instance. The node was left unattached.",
		DocURL:   "https://widgetkit.dev/docs/errors/W101",
	},
	"W102": {
		Category: CategoryWidget,
		Message:  "Widget update failed",
		Detail:   "The wrapped library rejected a property update.",
		DocURL:   "https://widgetkit.dev/docs/errors/W102",
	},
	"W103": {
		Category: CategoryWidget,
		Message:  "Widget disposal failed",
		Detail:   "The wrapped library failed while disposing its instance. The binding was still released.",
		DocURL:   "https://widgetkit.dev/docs/errors/W103",
	},
	"W104": {
		Category: CategoryWidget,
		Message:  "Widget instance disposed",
		Detail:   "The widget instance was used after it was disposed.",
		DocURL:   "https://widgetkit.dev/docs/errors/W104",
	},

	// ============================================
	// DOM Errors (W200-W299)
	// ============================================

	"W201": {
		Category: CategoryDOM,
		Message:  "Element creation failed",
		DocURL:   "https://widgetkit.dev/docs/errors/W201",
	},
	"W202": {
		Category: CategoryDOM,
		Message:  "Element write failed",
		DocURL:   "https://widgetkit.dev/docs/errors/W202",
	},
	"W203": {
		Category: CategoryDOM,
		Message:  "Element removal failed",
		DocURL:   "https://widgetkit.dev/docs/errors/W203",
	},
	"W204": {
		Category: CategoryDOM,
		Message:  "Unknown element",
		Detail:   "The host has no element with this handle. It may have been removed already.",
		DocURL:   "https://widgetkit.dev/docs/errors/W204",
	},

	// ============================================
	// Lifecycle Errors (W300-W399)
	// ============================================

	"W301": {
		Category: CategoryLifecycle,
		Message:  "Node already detached",
		Detail:   "Detached is a terminal state. Build a new node instead of re-attaching a removed one.",
		DocURL:   "https://widgetkit.dev/docs/errors/W301",
	},
	"W302": {
		Category: CategoryLifecycle,
		Message:  "Parent node not attached",
		Detail:   "A child can only be attached once its parent has a live binding.",
		DocURL:   "https://widgetkit.dev/docs/errors/W302",
	},
	"W303": {
		Category: CategoryLifecycle,
		Message:  "Nil node",
		DocURL:   "https://widgetkit.dev/docs/errors/W303",
	},
	"W304": {
		Category: CategoryLifecycle,
		Message:  "Lifecycle hook failed",
		Detail:   "An insert or remove hook returned an error.",
		DocURL:   "https://widgetkit.dev/docs/errors/W304",
	},

	// ============================================
	// Protocol Errors (W400-W499)
	// ============================================

	"W401": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		DocURL:   "https://widgetkit.dev/docs/errors/W401",
	},
	"W402": {
		Category: CategoryProtocol,
		Message:  "Unknown host operation",
		DocURL:   "https://widgetkit.dev/docs/errors/W402",
	},

	// ============================================
	// CLI Errors (W500-W599)
	// ============================================

	"W501": {
		Category: CategoryCLI,
		Message:  "Invalid command arguments",
		DocURL:   "https://widgetkit.dev/docs/errors/W501",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns every registered code.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
