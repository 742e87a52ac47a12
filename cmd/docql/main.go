package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docql/docql/internal/app"
	"github.com/docql/docql/internal/config"
)

const appName = "Document SQL Schema Layer"

const asciiBanner = `
     _                _
  __| | ___   ___ __ _| |
 / _' |/ _ \ / __/ _' | |
| (_| | (_) | (_| (_| | |
 \__,_|\___/ \___\__, |_|
                    |_|
`

var rootCmd = &cobra.Command{
	Use:   "docql",
	Short: "SQL-style schema inference over schemaless document stores",
	Long:  `A client-side layer that infers, caches, and serves SQL column metadata for MongoDB collections so relational tooling can query them.`,
	RunE:  runInteractive,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables available in the configured database",
	RunE:  runTables,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Infer and print a table's schema",
	RunE:  runInspect,
}

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-warm the schema cache for every table",
	RunE:  runWarm,
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the guided interactive workflow",
	RunE:  runInteractive,
}

var schemaService = app.NewService()

var (
	configPath    string
	tableName     string
	discoveryMode string
	verbose       bool
)

func init() {
	tablesCmd.Flags().StringVar(&configPath, "config", "", "Path to the database configuration file")
	tablesCmd.MarkFlagRequired("config")

	inspectCmd.Flags().StringVar(&configPath, "config", "", "Path to the database configuration file")
	inspectCmd.Flags().StringVar(&tableName, "table", "", "Table to inspect")
	inspectCmd.Flags().StringVar(&discoveryMode, "mode", "", "Discovery mode override (auto, hints, sampling, disabled)")
	inspectCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	inspectCmd.MarkFlagRequired("config")
	inspectCmd.MarkFlagRequired("table")

	warmCmd.Flags().StringVar(&configPath, "config", "", "Path to the database configuration file")
	warmCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	warmCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(warmCmd)
	rootCmd.AddCommand(interactiveCmd)

	cobra.OnInitialize(func() {
		rootCmd.SilenceUsage = true
		rootCmd.SilenceErrors = true
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	application := app.NewApplication(os.Stdin, printBanner)
	return application.RunInteractive()
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	return schemaService.ListTables(cfg)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	if strings.TrimSpace(discoveryMode) != "" {
		cfg.Discovery.Mode = config.Setting(discoveryMode)
	}
	return schemaService.InspectTable(cfg, tableName, verbose)
}

func runWarm(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	return schemaService.WarmCache(cfg, verbose)
}

func printBanner() {
	fmt.Print(asciiBanner)
	fmt.Println(appName)
	fmt.Println(strings.Repeat("-", len(appName)))
}
