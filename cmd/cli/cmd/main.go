package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/config"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/shell"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	outputFormat string
	apiURL       string
	verbose      bool

	// Build information, set with -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// printVersionInfo displays detailed version information
func printVersionInfo(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "eaw-cli %s\n", Version)
	_, _ = fmt.Fprintf(out, "Built: %s, from commit: %s\n", BuildTime, GitCommit)
	_, _ = fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	_, _ = fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eaw-cli",
	Short: "Compliance Tracker Lite command line interface",
	Long: "Track NIST SP 800-171 control implementation, assessment objectives, evidence, " +
		"POA&M items and the CUI boundary against a compliance tracker server.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			printVersionInfo(cmd)
			return nil
		}
		return cmd.Help()
	},
}

// versionCmd prints build information
var versionCmd = shell.Public(&cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersionInfo(cmd)
	},
})

// preRun builds the application once per process, refreshes the renderer for
// the current command and enforces the login gate.
func preRun(cmd *cobra.Command, _ []string) error {
	if app == nil {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		app = a
	}
	if err := app.useOutput(cmd.OutOrStdout(), outputFormat); err != nil {
		return err
	}
	if verbose {
		app.Log.SetLevel(logger.LevelDebug)
	}

	if shell.IsProtected(cmd) {
		return shell.Guard(app.Session)
	}
	return nil
}

// Execute runs the root command until it returns or SIGINT/SIGTERM arrives
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json or yaml (default from config)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides config and EAW_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().Bool("version", false, "Show version information and exit")

	setupCommands()
	setupCompletion()
}

func main() {
	Execute()
}
