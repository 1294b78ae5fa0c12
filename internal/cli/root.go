package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/gitpan/App-dropboxapi/internal/api"
	"github.com/gitpan/App-dropboxapi/internal/auth"
	"github.com/gitpan/App-dropboxapi/internal/config"
	"github.com/gitpan/App-dropboxapi/internal/logging"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
	"github.com/gitpan/App-dropboxapi/pkg/version"
	"github.com/spf13/cobra"
)

var (
	globalFlags types.GlobalFlags
	logger      logging.Logger
	// exitStatus carries a degraded result out of an otherwise successful
	// command run
	exitStatus int
)

var rootCmd = &cobra.Command{
	Use:   "dropbox-api",
	Short: "Dropbox command line interface",
	Long: `dropbox-api is a command-line tool for a Dropbox account: listing,
single-file transfers, and directory synchronization in either direction.

All commands support JSON output for automation and scripting.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateGlobalFlags(); err != nil {
			return err
		}

		logConfig := logging.LogConfig{
			Level:           logging.INFO,
			OutputFile:      globalFlags.LogFile,
			EnableConsole:   !globalFlags.Quiet,
			EnableDebug:     globalFlags.Debug,
			RedactSensitive: true,
			EnableColor:     true,
			EnableTimestamp: true,
		}
		if globalFlags.Verbose || globalFlags.Debug {
			logConfig.Level = logging.DEBUG
		}
		if globalFlags.OutputFormat == types.OutputFormatJSON && !globalFlags.Verbose && !globalFlags.Debug {
			logConfig.EnableConsole = false
		}

		var err error
		logger, err = logging.NewLogger(logConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if GetGlobalFlags().OutputFormat == types.OutputFormatJSON {
			out := NewOutputWriter(types.OutputFormatJSON, false, false)
			out.WriteSuccess("version", version.Get())
			return
		}
		fmt.Println(version.Get().String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar((*string)(&globalFlags.OutputFormat), "output", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose logging and progress output")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "Dump HTTP traffic and enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Config, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.DryRun, "dry-run", "n", false, "Show what would be done without making changes")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "Output in JSON format (alias for --output json)")

	rootCmd.AddCommand(versionCmd)
}

func validateGlobalFlags() error {
	if globalFlags.JSON {
		globalFlags.OutputFormat = types.OutputFormatJSON
	}

	if globalFlags.OutputFormat != types.OutputFormatJSON && globalFlags.OutputFormat != types.OutputFormatTable {
		return usageError(fmt.Sprintf("invalid output format: %s", globalFlags.OutputFormat))
	}
	return nil
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			return utils.GetExitCode(appErr.CLIError.Code)
		}
		// cobra's own errors (unknown command, bad flags) land here
		fmt.Fprintln(os.Stderr, "Error:", err)
		return utils.ExitUsage
	}
	return exitStatus
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() types.GlobalFlags {
	return globalFlags
}

// GetLogger returns the global logger
func GetLogger() logging.Logger {
	if logger == nil {
		return logging.NewNoOpLogger()
	}
	return logger
}

// newStoreClient loads the configuration, resolves the access token and
// builds the REST client. Missing credentials surface as AUTH_REQUIRED.
func newStoreClient(flags types.GlobalFlags) (*api.Client, *config.Config, error) {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return nil, nil, err
	}

	token, err := auth.NewManager().AccessToken(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := api.NewClient(api.Options{
		APIBase:     cfg.APIBase,
		ContentBase: cfg.ContentBase,
		AccessToken: token,
		Timeout:     time.Duration(cfg.RequestTimeout) * time.Second,
		Debug:       flags.Debug,
		Logger:      GetLogger(),
	})
	return client, cfg, nil
}

func usageError(msg string) error {
	return utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument, msg).Build())
}

// fail writes the structured error and propagates it so Execute can map it
// onto an exit code.
func fail(out *OutputWriter, command string, err error) error {
	appErr, ok := err.(*utils.AppError)
	if !ok {
		appErr = utils.NewAppError(utils.NewCLIError(utils.ErrCodeUnknown, err.Error()).Build())
	}
	out.WriteError(command, appErr.CLIError)
	return appErr
}
