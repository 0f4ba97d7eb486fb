package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amio-io/json-validations-lib/pkg/cli"
	"github.com/amio-io/json-validations-lib/pkg/config"
	"github.com/amio-io/json-validations-lib/pkg/console"
	"github.com/amio-io/json-validations-lib/pkg/constants"
	"github.com/amio-io/json-validations-lib/pkg/logging"
	"github.com/spf13/cobra"
)

// Build-time variables set by GoReleaser
var (
	version = "dev"
)

// Global flags
var (
	verbose    bool
	configFile string
)

// cfg is loaded once before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   constants.CLIName,
	Short: "Validate JSON and YAML documents against JSON Schemas",
	Long: constants.CLIName + ` validates JSON and YAML documents against JSON Schemas and reports the
first failure of each document as a single readable error: a message, the path of
the offending field and, where it applies, the rejected value.

Schemas are read from a directory (--schema-dir) and referenced by their $id.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		logCfg := logging.DefaultConfig()
		logCfg.Level = cfg.LogLevel
		logCfg.Format = cfg.LogFormat
		if verbose {
			logCfg.Level = "debug"
		}
		logging.Init(logCfg)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// loadConfig reads the configuration and applies the flags the user set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loaded, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	overrides := map[string]*string{
		"schema-dir":   &loaded.SchemaDir,
		"schema-id":    &loaded.SchemaID,
		"output":       &loaded.Output,
		"log-level":    &loaded.LogLevel,
		"metrics-addr": &loaded.MetricsAddr,
	}
	for name, target := range overrides {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			*target = flag.Value.String()
		}
	}
	if flag := flags.Lookup("concurrency"); flag != nil && flag.Changed {
		loaded.Concurrency, _ = flags.GetInt("concurrency")
	}

	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate JSON or YAML files against a schema",
	Long: `Validate each file against the schema named by --schema-id.

Files ending in .yaml or .yml are read as YAML, everything else as JSON.
The command exits with status 1 when any file is invalid.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.ValidateFiles(cmd.Context(), cfg, args, os.Stdout, verbose); err != nil {
			if !errors.Is(err, cli.ErrValidationFailed) || verbose {
				fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			}
			os.Exit(1)
		}
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>...",
	Short: "Validate files again whenever they or the schemas change",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := cli.WatchFiles(ctx, cfg, args, os.Stdout, verbose); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List the schemas found in the schema directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.ListSchemas(cfg.SchemaDir, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Serve validation as MCP tools over stdio",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := cli.RunMCPServer(ctx, cfg.SchemaDir, cfg.SchemaID); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%s version %s", constants.CLIName, version)))
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output showing detailed information")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringP("schema-dir", "d", "", "Directory holding the schema documents")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	// Schema selection for the commands that validate
	rootCmd.PersistentFlags().StringP("schema-id", "s", "", "Id of the schema to validate against")

	validateCmd.Flags().StringP("output", "o", "", "Output format (text, json)")
	validateCmd.Flags().IntP("concurrency", "j", 0, "Number of files validated in parallel")

	watchCmd.Flags().StringP("output", "o", "", "Output format (text, json)")
	watchCmd.Flags().IntP("concurrency", "j", 0, "Number of files validated in parallel")
	watchCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(schemasCmd)
	rootCmd.AddCommand(mcpServerCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Set version information in the CLI package
	cli.SetVersionInfo(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(1)
	}
}
