package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gitpan/App-dropboxapi/internal/api"
	"github.com/gitpan/App-dropboxapi/internal/sync/transfer"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get PATH [LOCAL]",
	Short: "Download a remote file",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runGet,
}

var putCmd = &cobra.Command{
	Use:   "put LOCAL [PATH]",
	Short: "Upload a local file",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPut,
}

var cpCmd = &cobra.Command{
	Use:   "cp SRC DST",
	Short: "Copy a remote file or folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runCp,
}

var mvCmd = &cobra.Command{
	Use:   "mv SRC DST",
	Short: "Move a remote file or folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runMv,
}

var rmCmd = &cobra.Command{
	Use:   "rm PATH",
	Short: "Delete a remote file or folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir PATH",
	Short: "Create a remote folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkdir,
}

var rmRecursive bool

func init() {
	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "Delete a non-empty folder")
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(cpCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(mkdirCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)
	remotePath := remoteArg(args[0])

	localPath := path.Base(remotePath)
	if len(args) == 2 {
		localPath = args[1]
	}

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "get", err)
	}
	ctx := context.Background()

	if localPath == "-" {
		if err := client.GetFile(ctx, remotePath, os.Stdout); err != nil {
			return fail(out, "get", err)
		}
		return nil
	}

	if info, err := os.Stat(localPath); err == nil && info.IsDir() {
		localPath = filepath.Join(localPath, path.Base(remotePath))
	}

	f, err := os.Create(localPath)
	if err != nil {
		return fail(out, "get", err)
	}
	if err := client.GetFile(ctx, remotePath, f); err != nil {
		f.Close()
		os.Remove(localPath)
		return fail(out, "get", err)
	}
	if err := f.Close(); err != nil {
		return fail(out, "get", err)
	}

	out.Log("Downloaded %s to %s", remotePath, localPath)
	return nil
}

func runPut(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)
	localPath := args[0]

	remotePath := "/" + filepath.Base(localPath)
	if len(args) == 2 {
		remotePath = remoteArg(args[1])
		// A trailing-slash target names the folder, not the file
		if remotePath == "/" || strings.HasSuffix(args[1], "/") {
			remotePath = path.Join(remotePath, filepath.Base(localPath))
		}
	}

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "put", err)
	}

	var progress io.Writer
	if flags.Verbose {
		progress = os.Stderr
	}
	engine := transfer.New(client, GetLogger(), transfer.Options{Progress: progress})

	meta, err := engine.UploadFile(context.Background(), localPath, remotePath, true)
	if err != nil {
		return fail(out, "put", err)
	}

	if flags.OutputFormat == types.OutputFormatJSON {
		return out.WriteSuccess("put", meta)
	}
	out.Log("Uploaded %s to %s", localPath, meta.Path)
	return nil
}

func runCp(cmd *cobra.Command, args []string) error {
	return runFileop("cp", args, (*api.Client).Copy)
}

func runMv(cmd *cobra.Command, args []string) error {
	return runFileop("mv", args, (*api.Client).Move)
}

func runFileop(name string, args []string, op func(*api.Client, context.Context, string, string) (*types.Metadata, error)) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)
	src := remoteArg(args[0])
	dst := remoteArg(args[1])

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, name, err)
	}
	meta, err := op(client, context.Background(), src, dst)
	if err != nil {
		return fail(out, name, err)
	}
	if flags.OutputFormat == types.OutputFormatJSON {
		return out.WriteSuccess(name, types.OperationResult{Metadata: meta})
	}
	out.Log("%s %s -> %s", name, src, dst)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)
	remotePath := remoteArg(args[0])

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "rm", err)
	}
	ctx := context.Background()

	// The store deletes folders recursively; require the flag before
	// letting a non-empty folder go.
	if !rmRecursive {
		meta, err := client.Metadata(ctx, remotePath)
		if err != nil {
			return fail(out, "rm", err)
		}
		if meta.IsDir && len(listEntries(meta)) > 0 {
			return fail(out, "rm", utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument,
				fmt.Sprintf("%s is not empty, use --recursive", remotePath)).Build()))
		}
	}

	if err := client.Delete(ctx, remotePath); err != nil {
		return fail(out, "rm", err)
	}
	out.Log("Deleted %s", remotePath)
	return nil
}

func runMkdir(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)
	remotePath := remoteArg(args[0])

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "mkdir", err)
	}
	meta, err := client.CreateFolder(context.Background(), remotePath)
	if err != nil {
		return fail(out, "mkdir", err)
	}
	if flags.OutputFormat == types.OutputFormatJSON {
		return out.WriteSuccess("mkdir", meta)
	}
	out.Log("Created %s", meta.Path)
	return nil
}
