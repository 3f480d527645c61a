// =============================================================================
// Farm-to-Fork Document Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command all document commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (docgen)
//   ├── deliveryNotesCmd (docgen delivery-notes)
//   ├── invoicesCmd      (docgen invoices)
//   ├── pickListsCmd     (docgen picklists)
//   ├── summaryCmd       (docgen summary)
//   └── versionCmd       (docgen version)
//
// CONFIGURATION:
//   The root command sets up the global flags (--config, --verbose) and the
//   environment override layer: any renderer setting can be overridden with
//   a DOCGEN_* environment variable (e.g. DOCGEN_RENDERER_REGION) without
//   touching config.yaml.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oxfarmtofork/docgen/internal/config"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose output when set to true.
var verbose bool

// noRender skips the rendering collaborator for this run even when the
// configuration enables it.
var noRender bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Farm-to-Fork document generator - weekly order sheets in, business documents out",
	Long: `docgen ingests the weekly marketplace order spreadsheets and the buyer
contacts spreadsheet, validates them, and derives the documents the
back-office team sends out every week.

Key features:
  - Defensive parsing of the human-maintained GROWERS' PAGE layout
  - Full validation report per spreadsheet before anything is generated
  - Delivery notes, invoices and pick lists with reproducible references
  - JSON payloads for the document-rendering service, plus CSV exports

Example usage:
  docgen delivery-notes --orders "input/week 7 - 12_02_2024.xlsx" --date 2024-02-12
  docgen invoices --date 2024-03-01             # discovers sheets in input/
  docgen picklists --orders "input/week 7 - 12_02_2024.xlsx" --monday 2024-02-12 --summary
  docgen summary                                # flat CSV export of all orders`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output",
	)

	rootCmd.PersistentFlags().BoolVar(
		&noRender,
		"no-render",
		false,
		"Write payloads only, skipping the rendering collaborator",
	)

	cobra.OnInitialize(initEnvOverrides)
}

// initEnvOverrides wires the DOCGEN_* environment namespace into viper so
// renderer settings can be overridden per deployment.
func initEnvOverrides() {
	viper.SetEnvPrefix("docgen")
	viper.AutomaticEnv()

	viper.SetDefault("renderer_region", "")
	viper.SetDefault("renderer_orders_function", "")
	viper.SetDefault("renderer_invoices_function", "")
	viper.SetDefault("renderer_picks_function", "")
	viper.SetDefault("renderer_zipper_function", "")
}

// loadConfig reads config.yaml and applies environment overrides.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if region := viper.GetString("renderer_region"); region != "" {
		cfg.Renderer.Region = region
	}
	if fn := viper.GetString("renderer_orders_function"); fn != "" {
		cfg.Renderer.OrdersFunction = fn
	}
	if fn := viper.GetString("renderer_invoices_function"); fn != "" {
		cfg.Renderer.InvoicesFunction = fn
	}
	if fn := viper.GetString("renderer_picks_function"); fn != "" {
		cfg.Renderer.PicksFunction = fn
	}
	if fn := viper.GetString("renderer_zipper_function"); fn != "" {
		cfg.Renderer.ZipperFunction = fn
	}

	return cfg, nil
}
