package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitpan/App-dropboxapi/internal/api"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [PATH]",
	Short: "List a remote directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLs,
}

var (
	lsFormat string
	lsHuman  bool
	lsLong   bool
)

// longFormat is the preset applied by --long
const longFormat = "%d\t%s\t%m\t%p"

func init() {
	lsCmd.Flags().StringVar(&lsFormat, "format", "", "Per-entry output template (%p path, %b bytes, %s size, %m modified, %t mime, %r rev, %i icon, %d dir flag, %% literal)")
	lsCmd.Flags().BoolVar(&lsHuman, "human", false, "Humanize byte sizes")
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "Long listing preset")
	rootCmd.AddCommand(lsCmd)
}

// remoteArg normalizes a remote path argument; the remote prefix is
// accepted but optional outside of sync.
func remoteArg(arg string) string {
	p := strings.TrimPrefix(arg, utils.RemotePrefix)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func runLs(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)

	path := "/"
	if len(args) == 1 {
		path = remoteArg(args[0])
	}

	formatter, err := lsFormatter()
	if err != nil {
		return fail(out, "ls", err)
	}

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "ls", err)
	}

	meta, err := client.Metadata(context.Background(), path)
	if err != nil {
		return fail(out, "ls", err)
	}

	entries := listEntries(meta)

	if formatter != nil {
		for _, m := range entries {
			fmt.Println(formatter.Render(m))
		}
		return nil
	}
	return out.WriteSuccess("ls", entries)
}

func lsFormatter() (*Formatter, error) {
	switch {
	case lsFormat != "" && lsLong:
		return nil, usageError("--format and --long are mutually exclusive")
	case lsLong:
		return NewFormatter(longFormat)
	case lsFormat != "":
		return NewFormatter(lsFormat)
	case lsHuman:
		return NewFormatter("%s\t%p")
	default:
		return nil, nil
	}
}

// listEntries flattens a metadata response into displayable rows: the
// children for a directory, the node itself for a file. Soft-deleted
// entries are dropped.
func listEntries(meta *types.Metadata) []*types.Metadata {
	if !meta.IsDir {
		return []*types.Metadata{meta}
	}
	entries := make([]*types.Metadata, 0, len(meta.Contents))
	for i := range meta.Contents {
		if api.IsDeletedMetadata(&meta.Contents[i]) {
			continue
		}
		entries = append(entries, &meta.Contents[i])
	}
	return entries
}
