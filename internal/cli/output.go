package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
)

// OutputWriter handles CLI output formatting
type OutputWriter struct {
	format   types.OutputFormat
	quiet    bool
	verbose  bool
	warnings []types.CLIWarning
}

// NewOutputWriter creates a new output writer
func NewOutputWriter(format types.OutputFormat, quiet, verbose bool) *OutputWriter {
	return &OutputWriter{
		format:   format,
		quiet:    quiet,
		verbose:  verbose,
		warnings: []types.CLIWarning{},
	}
}

// AddWarning adds a warning to the output
func (w *OutputWriter) AddWarning(code, message, severity string) {
	w.warnings = append(w.warnings, types.CLIWarning{
		Code:     code,
		Message:  message,
		Severity: severity,
	})
}

// WriteSuccess writes a successful result
func (w *OutputWriter) WriteSuccess(command string, data interface{}) error {
	if w.format == types.OutputFormatJSON {
		return w.writeJSON(types.CLIOutput{
			SchemaVersion: utils.SchemaVersion,
			TraceID:       uuid.New().String(),
			Command:       command,
			Data:          data,
			Warnings:      w.warnings,
			Errors:        []types.CLIError{},
		})
	}
	return w.writeTable(command, data)
}

// WriteError writes an error result. Errors always use the JSON envelope in
// JSON mode and a plain line otherwise.
func (w *OutputWriter) WriteError(command string, cliErr types.CLIError) error {
	if w.format == types.OutputFormatJSON {
		return w.writeJSON(types.CLIOutput{
			SchemaVersion: utils.SchemaVersion,
			TraceID:       uuid.New().String(),
			Command:       command,
			Data:          nil,
			Warnings:      w.warnings,
			Errors:        []types.CLIError{cliErr},
		})
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %s\n", cliErr.Code, cliErr.Message)
	return nil
}

func (w *OutputWriter) writeJSON(output types.CLIOutput) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func (w *OutputWriter) writeTable(command string, data interface{}) error {
	if renderable, ok := data.(types.TableRenderable); ok {
		return w.renderTable(renderable.AsTableRenderer())
	}
	if renderer, ok := data.(types.TableRenderer); ok {
		return w.renderTable(renderer)
	}
	switch v := data.(type) {
	case []*types.Metadata:
		return w.writeMetadataTable(v)
	case *types.Metadata:
		return w.writeMetadataTable([]*types.Metadata{v})
	default:
		// Fallback to JSON for unknown shapes
		return w.writeJSON(types.CLIOutput{
			SchemaVersion: utils.SchemaVersion,
			TraceID:       uuid.New().String(),
			Command:       command,
			Data:          data,
			Warnings:      w.warnings,
			Errors:        []types.CLIError{},
		})
	}
}

func (w *OutputWriter) renderTable(renderer types.TableRenderer) error {
	rows := renderer.Rows()
	if len(rows) == 0 {
		if !w.quiet {
			fmt.Fprintln(os.Stdout, renderer.EmptyMessage())
		}
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(renderer.Headers())
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range rows {
		table.Append(row)
	}

	table.Render()
	return nil
}

func (w *OutputWriter) writeMetadataTable(entries []*types.Metadata) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Path", "Size", "Modified"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, m := range entries {
		size := "-"
		if !m.IsDir {
			size = humanize.IBytes(uint64(m.Bytes))
		}
		table.Append([]string{m.Path, size, m.Modified})
	}

	table.Render()
	return nil
}

// Log writes to stderr if not quiet
func (w *OutputWriter) Log(format string, args ...interface{}) {
	if !w.quiet {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Verbose writes to stderr if verbose is enabled
func (w *OutputWriter) Verbose(format string, args ...interface{}) {
	if w.verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}
