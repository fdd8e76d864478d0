package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fraud-screen/internal/config"
	"fraud-screen/internal/observability"
	"fraud-screen/internal/services"
)

// globalOptions are the persistent flags shared by every subcommand. Artifact
// flags override the values from the config file and environment.
type globalOptions struct {
	configFile string
	model      string
	encoders   string
	catalogs   string
	schema     string
	colorMode  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "fraudctl",
		Short:         "Score transactions and inspect fraud model artifacts",
		Long:          `fraudctl runs the fraud screening model offline against JSON records and manages its artifacts`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyColorMode(opts.colorMode, cmd.OutOrStdout())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", os.Getenv("CONFIG_FILE"), "YAML config file")
	flags.StringVar(&opts.model, "model", "", "decision tree artifact (.json or .msgpack)")
	flags.StringVar(&opts.encoders, "encoders", "", "label encoder artifact (.json or .msgpack)")
	flags.StringVar(&opts.catalogs, "catalogs", "", "directory holding the catalog files")
	flags.StringVar(&opts.schema, "schema", "", "feature schema the model was fit on (geo|compact)")
	flags.StringVar(&opts.colorMode, "color", "auto", "colorize output (auto|on|off)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	rootCmd.AddCommand(newScoreCmd(opts))
	rootCmd.AddCommand(newInspectCmd(opts))
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), color.RedString("error:"), err)
		os.Exit(1)
	}
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	return config.LoadFrom(o.configFile, o.override)
}

// override applies the flags on top of the file and environment.
func (o *globalOptions) override(cfg *config.Config) {
	if o.model != "" {
		cfg.Artifacts.ModelFile = o.model
	}
	if o.encoders != "" {
		cfg.Artifacts.EncodersFile = o.encoders
	}
	if o.catalogs != "" {
		cfg.Artifacts.CatalogDir = o.catalogs
	}
	if o.schema != "" {
		cfg.Artifacts.Schema = o.schema
	}
	cfg.Logger.Level = strings.ToLower(o.logLevel)
	cfg.Logger.Format = "text"
}

func (o *globalOptions) logger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.Logger)
}

func (o *globalOptions) loadScreening(cmd *cobra.Command) (*services.Screening, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return services.LoadScreening(ctx, cfg.Artifacts, o.logger(cmd, cfg))
}

func applyColorMode(mode string, out io.Writer) error {
	switch strings.ToLower(mode) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		f, ok := out.(*os.File)
		color.NoColor = !ok || !term.IsTerminal(int(f.Fd()))
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
	return nil
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
