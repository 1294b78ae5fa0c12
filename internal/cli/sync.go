package cli

import (
	"context"
	"io"
	"os"

	syncengine "github.com/gitpan/App-dropboxapi/internal/sync"
	"github.com/gitpan/App-dropboxapi/internal/sync/transfer"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync dropbox:/REMOTE /local | /local dropbox:/REMOTE",
	Short: "Synchronize a directory tree with the remote store",
	Long: `Mirror a remote directory onto a local one or the other way around.
The argument carrying the dropbox: prefix picks the direction. With
--delete, items missing from the source side are removed from the target
after a completed pass; a locally renamed copy of a remotely moved file is
recognized by its inode and kept.`,
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

var (
	syncDelete   bool
	syncExcludes []string
)

func init() {
	syncCmd.Flags().BoolVarP(&syncDelete, "delete", "d", false, "Delete items missing from the source side")
	syncCmd.Flags().StringArrayVarP(&syncExcludes, "exclude", "e", nil, "Exclude pattern (repeatable glob)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)

	direction, remoteRoot, localRoot, err := syncengine.ParseRoots(args[0], args[1])
	if err != nil {
		return fail(out, "sync", err)
	}

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "sync", err)
	}

	var progress io.Writer
	if flags.Verbose {
		progress = os.Stderr
	}

	engine := syncengine.NewEngine(client, GetLogger())
	result, err := engine.Run(context.Background(), direction, remoteRoot, localRoot, syncengine.Options{
		Delete:   syncDelete,
		DryRun:   flags.DryRun,
		Verbose:  flags.Verbose,
		Excludes: syncExcludes,
		Transfer: transfer.Options{Progress: progress},
	})
	if err != nil {
		return fail(out, "sync", err)
	}

	if result.Degraded {
		out.AddWarning(utils.ErrCodeDegraded, "some items failed or were skipped", "warning")
	}
	exitStatus = result.ExitCode()

	summary := map[string]interface{}{
		"direction":    direction.String(),
		"dry_run":      flags.DryRun,
		"downloads":    result.Summary.Downloads,
		"uploads":      result.Summary.Uploads,
		"mkdir_local":  result.Summary.MkdirLocal,
		"mkdir_remote": result.Summary.MkdirRemote,
		"deletes":      result.Summary.Deletes,
		"skips":        result.Summary.Skips,
		"failures":     result.Summary.Failures,
	}
	return out.WriteSuccess("sync", summary)
}
