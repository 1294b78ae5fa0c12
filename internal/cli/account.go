package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show account information",
	RunE:  runAccount,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

type accountView struct {
	*types.AccountInfo
}

func (v accountView) Headers() []string    { return []string{"Field", "Value"} }
func (v accountView) EmptyMessage() string { return "No account information" }

func (v accountView) Rows() [][]string {
	used := v.QuotaInfo.Normal + v.QuotaInfo.Shared
	return [][]string{
		{"uid", fmt.Sprintf("%d", v.UID)},
		{"name", v.DisplayName},
		{"email", v.Email},
		{"country", v.Country},
		{"quota", humanize.IBytes(uint64(v.QuotaInfo.Quota))},
		{"used", humanize.IBytes(uint64(used))},
	}
}

func runAccount(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)

	client, _, err := newStoreClient(flags)
	if err != nil {
		return fail(out, "account", err)
	}

	info, err := client.AccountInfo(context.Background())
	if err != nil {
		return fail(out, "account", err)
	}

	if flags.OutputFormat == types.OutputFormatJSON {
		return out.WriteSuccess("account", info)
	}
	return out.WriteSuccess("account", accountView{info})
}
