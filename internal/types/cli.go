package types

// OutputFormat selects how command results are rendered
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// GlobalFlags holds flags shared by all commands. The struct is threaded
// explicitly into every component; there is no ambient sync context.
type GlobalFlags struct {
	OutputFormat OutputFormat
	Config       string
	LogFile      string
	Quiet        bool
	Verbose      bool
	Debug        bool
	DryRun       bool
	JSON         bool
}

// CLIError is the stable, machine-readable error shape emitted on stderr/JSON
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"httpStatus,omitempty"`
	Retryable  bool                   `json:"retryable,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// CLIWarning is a non-fatal diagnostic attached to a command result
type CLIWarning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// CLIOutput is the JSON envelope written for every command
type CLIOutput struct {
	SchemaVersion string       `json:"schemaVersion"`
	TraceID       string       `json:"traceId"`
	Command       string       `json:"command"`
	Data          interface{}  `json:"data"`
	Warnings      []CLIWarning `json:"warnings"`
	Errors        []CLIError   `json:"errors"`
}
