package cli

import (
	"context"
	"fmt"

	"github.com/gitpan/App-dropboxapi/internal/sync/scanner"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find PATH",
	Short: "List a remote directory recursively",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

var findFormat string

func init() {
	findCmd.Flags().StringVar(&findFormat, "format", "", "Per-entry output template (see ls --format)")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)
	path := remoteArg(args[0])

	var formatter *Formatter
	if findFormat != "" {
		f, err := NewFormatter(findFormat)
		if err != nil {
			return fail(out, "find", err)
		}
		formatter = f
	}

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "find", err)
	}

	var entries []*types.Metadata
	remote := scanner.NewRemoteScanner(client, GetLogger())
	degraded, err := remote.Walk(context.Background(), path, func(entry *types.Metadata) error {
		meta := *entry
		entries = append(entries, &meta)
		return nil
	})
	if err != nil {
		return fail(out, "find", err)
	}
	if degraded {
		out.AddWarning(utils.ErrCodeDegraded, "one or more deleted subtrees were skipped", "warning")
		exitStatus = utils.ExitDegraded
	}

	if formatter != nil {
		for _, m := range entries {
			fmt.Println(formatter.Render(m))
		}
		return nil
	}
	return out.WriteSuccess("find", entries)
}
