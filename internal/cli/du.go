package cli

import (
	"context"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gitpan/App-dropboxapi/internal/sync/scanner"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"github.com/spf13/cobra"
)

var duCmd = &cobra.Command{
	Use:   "du [PATH]",
	Short: "Show recursive byte totals per immediate child",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDu,
}

func init() {
	rootCmd.AddCommand(duCmd)
}

type duEntry struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	Size  string `json:"size"`
}

type duReport struct {
	Entries    []duEntry `json:"entries"`
	TotalBytes int64     `json:"total_bytes"`
	TotalSize  string    `json:"total_size"`
}

func (r duReport) Headers() []string    { return []string{"Path", "Size"} }
func (r duReport) EmptyMessage() string { return "Empty directory" }

func (r duReport) Rows() [][]string {
	rows := make([][]string, 0, len(r.Entries)+1)
	for _, e := range r.Entries {
		rows = append(rows, []string{e.Path, e.Size})
	}
	rows = append(rows, []string{"total", r.TotalSize})
	return rows
}

func runDu(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)

	path := "/"
	if len(args) == 1 {
		path = remoteArg(args[0])
	}

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "du", err)
	}

	remote := scanner.NewRemoteScanner(client, GetLogger())
	ctx := context.Background()

	root, err := remote.Resolve(ctx, path)
	if err != nil {
		return fail(out, "du", err)
	}
	rootPath := root.Path

	// Accumulate recursive totals under each immediate child of the root
	totals := make(map[string]int64)
	var order []string
	var total int64

	degraded, err := remote.Walk(ctx, rootPath, func(entry *types.Metadata) error {
		rel := strings.TrimPrefix(entry.Path, rootPath)
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" {
			return nil
		}
		child := rel
		if i := strings.Index(rel, "/"); i >= 0 {
			child = rel[:i]
		}
		if _, ok := totals[child]; !ok {
			order = append(order, child)
		}
		if !entry.IsDir {
			totals[child] += entry.Bytes
			total += entry.Bytes
		}
		return nil
	})
	if err != nil {
		return fail(out, "du", err)
	}
	if degraded {
		out.AddWarning(utils.ErrCodeDegraded, "one or more deleted subtrees were skipped", "warning")
		exitStatus = utils.ExitDegraded
	}

	sort.Strings(order)
	report := duReport{TotalBytes: total, TotalSize: humanize.IBytes(uint64(total))}
	for _, child := range order {
		report.Entries = append(report.Entries, duEntry{
			Path:  child,
			Bytes: totals[child],
			Size:  humanize.IBytes(uint64(totals[child])),
		})
	}

	return out.WriteSuccess("du", report)
}
