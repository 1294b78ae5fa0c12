package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gitpan/App-dropboxapi/internal/auth"
	"github.com/gitpan/App-dropboxapi/internal/config"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Authorize this machine against the remote store",
	Long: `Interactive first-run flow: asks for the application key and secret,
prints the authorization URL, and exchanges the pasted code for an access
token. The token goes into the system keyring when one is available,
otherwise into the config file.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	out := NewOutputWriter(flags.OutputFormat, flags.Quiet, flags.Verbose)

	cfg, err := config.Load(flags.Config)
	if err != nil {
		return fail(out, "setup", err)
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.AppKey = prompt(reader, "App key", cfg.AppKey)
	cfg.AppSecret = prompt(reader, "App secret", cfg.AppSecret)
	if cfg.AppKey == "" || cfg.AppSecret == "" {
		return fail(out, "setup", usageError("app key and secret are required"))
	}

	mgr := auth.NewManager()
	authURL, err := mgr.AuthorizeURL(cfg)
	if err != nil {
		return fail(out, "setup", err)
	}

	fmt.Println("1. Open the authorization URL in your browser:")
	fmt.Println()
	fmt.Println("   " + authURL)
	fmt.Println()
	fmt.Println("2. Click Allow, then paste the code shown.")
	fmt.Println()

	code := prompt(reader, "Code", "")
	if code == "" {
		return fail(out, "setup", usageError("no authorization code entered"))
	}

	token, err := mgr.Exchange(context.Background(), cfg, code)
	if err != nil {
		return fail(out, "setup", err)
	}

	mgr.SaveToken(cfg, token)
	if err := cfg.Save(flags.Config); err != nil {
		return fail(out, "setup", err)
	}

	where := "config file"
	if cfg.TokenInKeyring {
		where = "system keyring"
	}
	out.Log("Authorized. Token stored in the %s.", where)
	return nil
}

func prompt(reader *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}
