// =============================================================================
// Visitor Export - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// (generate, preview, history, sites, version) is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (visitor-export)
//   ├── generateCmd (visitor-export generate)
//   ├── previewCmd  (visitor-export preview)
//   ├── historyCmd  (visitor-export history)
//   ├── sitesCmd    (visitor-export sites)
//   └── versionCmd  (visitor-export version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/visitor-export/internal/config"
	"github.com/ginjaninja78/visitor-export/internal/exporter"
	"github.com/ginjaninja78/visitor-export/internal/generator"
	"github.com/ginjaninja78/visitor-export/internal/history"
	"github.com/ginjaninja78/visitor-export/internal/logging"
	"github.com/ginjaninja78/visitor-export/internal/records"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// defaultConfigFile may be absent; any other --config value must exist.
const defaultConfigFile = "config.yaml"

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig and logger are set by the root command before a subcommand runs.
var (
	appConfig *config.Config
	logger    *slog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "visitor-export",
	Short: "Visitor Export - Build the visitor registration import file",

	Long: `Visitor Export collects visitor records from a spreadsheet or from the
command line, merges them with the shared visit details (approver, visit
window, sites, reason) and writes the GBK-encoded file accepted by the
campus visitor registration system.

Example Usage:
  visitor-export generate --input visitors.xlsx --approver-id E001 \
      --reason 会议 --site 东区 --start "2030-03-05 09:00" --end "2030-03-05 10:00"
  visitor-export preview --input visitors.xlsx
  visitor-export history`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		defaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initApp loads the configuration and sets up logging.
func initApp(cmd *cobra.Command) error {
	required := cmd.Flags().Changed("config")

	cfg, err := config.Load(cfgFile, required)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	l, err := logging.Setup(os.Stderr, level, cfg.LogFormat)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l
	logger.Debug("configuration loaded", "file", cfgFile, "history", cfg.HistoryFile)
	return nil
}

// newGenerator builds the export pipeline from the loaded configuration.
func newGenerator() *generator.Generator {
	return generator.New(
		records.NewStore(),
		history.Open(appConfig.HistoryFile),
		exporter.New(),
		generator.WithLogger(logger),
		generator.WithImportSettings(appConfig.Import),
	)
}
