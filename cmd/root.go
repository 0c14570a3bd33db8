package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskctl/deskctl/internal/config"
	"github.com/deskctl/deskctl/internal/logging"
	"github.com/deskctl/deskctl/internal/output"
	"github.com/deskctl/deskctl/internal/version"
)

// cfg is the loaded configuration, set by the root PersistentPreRunE
// before any subcommand runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "deskctl",
	Short: "Locate and drive desktop UI through screen capture and synthetic input",
	Long:  "A cross-platform toolkit that finds on-screen UI by template matching, resolves windows, and drives them with synthesized mouse and keyboard input.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: user config dir)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path, _ := rootCmd.PersistentFlags().GetString("config")
		if path == "" {
			var err error
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		level, err := logging.ParseLevel(cfg.Log)
		if err != nil {
			return err
		}
		if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
			level = logging.LevelDebug
		}
		logging.SetLevel(level)

		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags (e.g. screenshot --format png/jpg).
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "", "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		pretty, _ := rootCmd.PersistentFlags().GetBool("pretty")
		output.PrettyOutput = pretty
		return nil
	}
}
